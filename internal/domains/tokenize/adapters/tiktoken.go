package adapters

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// bpeHost serves the BPE rank files tiktoken-go downloads on first use
// (unless TIKTOKEN_CACHE_DIR already holds them).
const bpeHost = "openaipublic.blob.core.windows.net"

// TiktokenCounter counts BPE tokens for OpenAI-family encodings.
type TiktokenCounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("init tiktoken encoding %s: %w", encoding, err)
	}
	return &TiktokenCounter{encoding: encoding, enc: enc}, nil
}

func (t *TiktokenCounter) Count(text string) (int, error) {
	// Special-token text in source files is counted as ordinary text.
	return len(t.enc.EncodeOrdinary(text)), nil
}

func (t *TiktokenCounter) Name() string {
	return "tiktoken[" + t.encoding + "]"
}
