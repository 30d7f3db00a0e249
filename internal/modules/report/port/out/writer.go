package out

import (
	"context"

	"fieldaudit/internal/modules/report/domain"
)

// Writer renders a report into dir and returns the written path.
type Writer interface {
	Format() string
	Write(ctx context.Context, dir string, report domain.Report) (string, error)
}
