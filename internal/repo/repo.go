package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/tossplace/pkg/db"
	"github.com/Skotchmaster/tossplace/pkg/errs"
)

type GormRepo struct {
	Store *db.Store
}

func New(store *db.Store) *GormRepo {
	return &GormRepo{Store: store}
}

// translate maps driver errors onto the service error taxonomy.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrNotConnected):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", errs.ErrNotFound, what)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s already exists", errs.ErrConflict, what)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s references a missing row", errs.ErrNotFound, what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// escapeLike escapes LIKE wildcards; queries use ESCAPE '\'.
func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
