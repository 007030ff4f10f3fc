package activitylog

import "errors"

var ErrActivityLogNotFound = errors.New("activity log not found")
