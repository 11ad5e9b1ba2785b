package models

// FormFile marks a file upload in a submitted form. External providers
// do not accept file payloads, so writers skip these values.
type FormFile struct {
	Filename    string
	ContentType string
	Size        int64
}

// FormValue is one submitted value: either a plain string or a file.
type FormValue struct {
	Value string
	File  *FormFile
}

// IsFile reports whether the value is a file upload.
func (v FormValue) IsFile() bool { return v.File != nil }

// FormField is one named field with its submitted values, in submission
// order.
type FormField struct {
	Name   string
	Values []FormValue
}

// SubmittedForm is an ordered multi-map of field name to submitted
// values, mirroring a form-encoded submission from the CMS.
type SubmittedForm struct {
	fields []FormField
	index  map[string]int
}

// NewSubmittedForm returns an empty form.
func NewSubmittedForm() *SubmittedForm {
	return &SubmittedForm{index: make(map[string]int)}
}

// Add appends a string value under name, preserving submission order.
func (f *SubmittedForm) Add(name, value string) {
	f.add(name, FormValue{Value: value})
}

// AddFile appends a file value under name.
func (f *SubmittedForm) AddFile(name string, file *FormFile) {
	f.add(name, FormValue{File: file})
}

func (f *SubmittedForm) add(name string, value FormValue) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[name]; ok {
		f.fields[i].Values = append(f.fields[i].Values, value)
		return
	}
	f.index[name] = len(f.fields)
	f.fields = append(f.fields, FormField{Name: name, Values: []FormValue{value}})
}

// Fields returns all fields in submission order.
func (f *SubmittedForm) Fields() []FormField {
	return f.fields
}

// Get returns the first value submitted under name.
func (f *SubmittedForm) Get(name string) (FormValue, bool) {
	if f.index == nil {
		return FormValue{}, false
	}
	i, ok := f.index[name]
	if !ok || len(f.fields[i].Values) == 0 {
		return FormValue{}, false
	}
	return f.fields[i].Values[0], true
}

// Len returns the number of distinct field names.
func (f *SubmittedForm) Len() int { return len(f.fields) }
