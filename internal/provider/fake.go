package provider

import "context"

// FakeProvider returns a canned response, for tests.
type FakeProvider struct {
	ResponseText string
	Err          error

	LastRequest *Request
}

func NewFake(response string) *FakeProvider {
	return &FakeProvider{ResponseText: response}
}

func (f *FakeProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	f.LastRequest = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &Response{Text: f.ResponseText}, nil
}
