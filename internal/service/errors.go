package service

import "errors"

var (
	ErrNoItemsProvided         = errors.New("no sync items provided")
	ErrEmptyItemID             = errors.New("sync item has no ID")
	ErrUnsupportedResourceType = errors.New("unsupported resource type")

	ErrInvalidResolution  = errors.New("unknown resolution strategy")
	ErrManualDataRequired = errors.New("manual resolution requires merged data")
	ErrBatchNotInConflict = errors.New("batch is not in conflict status")

	ErrBatchExpired = errors.New("batch has expired")
)
