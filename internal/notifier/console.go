package notifier

import (
	"context"
	"fmt"
	"io"
)

// Console writes notifications to w instead of delivering them.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Show(_ context.Context, n Notification) error {
	_, err := fmt.Fprintf(c.w, "[%s] %s\n%s\n", n.Tag, n.Title, n.Body)
	return err
}
