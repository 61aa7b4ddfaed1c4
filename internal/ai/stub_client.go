package ai

import "context"

// StubClient заглушка, которая не делает реальных запросов
type StubClient struct {
	reply string
}

func NewStubClient() *StubClient { return &StubClient{reply: "запрос получен"} }

func (c *StubClient) SendText(_ context.Context, _ string) (string, error) {
	return c.reply, nil
}

func (c *StubClient) SendImage(_ context.Context, _ string, _ Media) (string, error) {
	return c.reply, nil
}
