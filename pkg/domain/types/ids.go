package types

import "github.com/google/uuid"

type (
	RequestID  string
	AnalysisID string
)

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

func NewAnalysisID() AnalysisID {
	return AnalysisID(uuid.NewString())
}

func (x AnalysisID) String() string {
	return string(x)
}
