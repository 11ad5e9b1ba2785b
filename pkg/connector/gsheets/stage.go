package gsheets

import "fmt"

// Stage identifies one step of the sheet sync pipeline.
type Stage string

const (
	StageDownload   Stage = "download"
	StageParse      Stage = "parse"
	StageAppend     Stage = "append"
	StageEncode     Stage = "encode"
	StageInitUpload Stage = "init_upload"
	StageUpload     Stage = "upload"
)

// StageError reports which pipeline stage failed. Any stage failure
// aborts the whole operation; there is no partial retry of a later
// stage.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("sheet sync failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the stage's underlying error
func (e *StageError) Unwrap() error {
	return e.Err
}
