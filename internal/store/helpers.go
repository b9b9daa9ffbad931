package store

import (
	"errors"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/cryptox"
)

// hashSecret is a seam for tests.
var hashSecret = cryptox.HashSecret

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
