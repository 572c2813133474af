//go:build !windows

package etabs

import (
	"context"
	"fmt"

	"github.com/alexiusacademia/etabsmc/internal/session"
)

func (f *Factory) Attach(ctx context.Context) (session.Application, error) {
	return nil, fmt.Errorf("%s: %w", f.ProgID, ErrUnsupported)
}

func (f *Factory) Launch(ctx context.Context, visible bool) (session.Application, error) {
	return nil, fmt.Errorf("%s: %w", f.ProgID, ErrUnsupported)
}
