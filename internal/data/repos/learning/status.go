package learning

import (
	"fmt"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domlearning "github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

// checkStatus canonicalizes a stored status. A value no writer produces fails
// the read so it can never drive a status transition.
func checkStatus(log *logger.Logger, table, id string, s *types.Status) error {
	st, err := domlearning.ParseStatus(string(*s))
	if err != nil {
		log.Warn("rejecting row with unknown status", "table", table, "id", id, "status", string(*s))
		return fmt.Errorf("%s %s: %w", table, id, err)
	}
	*s = st
	return nil
}
