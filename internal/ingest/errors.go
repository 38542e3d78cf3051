package ingest

import "errors"

var (
	errMissingPlayerID = errors.New("missing player id")
	errMissingDate     = errors.New("missing game date")
	errMissingPropType = errors.New("missing prop type")
	errNoOddsSides     = errors.New("no odds on either side")
)
