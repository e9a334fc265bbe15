package answer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens the way the target model does. The counts feed
// cost visibility only.
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// tiktokenCounter resolves the model's BPE encoding lazily, since loading it
// can touch the network and the first query is the first moment it is needed.
type tiktokenCounter struct {
	model string
	once  sync.Once
	enc   *tiktoken.Tiktoken
	err   error
}

func NewTiktokenCounter(model string) TokenCounter {
	return &tiktokenCounter{model: model}
}

func (c *tiktokenCounter) CountTokens(text string) (int, error) {
	c.once.Do(func() {
		c.enc, c.err = tiktoken.EncodingForModel(c.model)
	})
	if c.err != nil {
		return 0, fmt.Errorf("load encoding for %s: %w", c.model, c.err)
	}
	return len(c.enc.Encode(text, nil, nil)), nil
}
