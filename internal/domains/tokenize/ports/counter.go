package ports

// Counter counts tokens with one fixed scheme. Implementations are
// deterministic: the same text always yields the same count.
type Counter interface {
	Count(text string) (int, error)
	// Name identifies the scheme, e.g. "whitespace" or "tiktoken[cl100k_base]".
	Name() string
}
