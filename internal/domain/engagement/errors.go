package engagement

import "errors"

var ErrEngagementNotFound = errors.New("engagement not found")
