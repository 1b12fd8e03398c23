package parametres

import (
	"context"
	"errors"
)

var ErrParametresNotFound = errors.New("global parameters not found")

// ParametresRepository reads and writes the singleton row.
type ParametresRepository interface {
	Get(ctx context.Context) (GlobalParameters, error)
	Update(ctx context.Context, p GlobalParameters) error
}
