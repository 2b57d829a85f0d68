package filesvc

import (
	"context"
	"io"
)

// contextReader прекращает чтение, как только отменён контекст запроса,
// чтобы не качать файл в ответ, который уже никто не читает.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

// NewContextReader оборачивает r проверкой ctx перед каждым Read.
func NewContextReader(ctx context.Context, r io.Reader) io.Reader {
	return &contextReader{ctx: ctx, r: r}
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
