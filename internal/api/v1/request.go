package v1

type ListParseErrorsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}
