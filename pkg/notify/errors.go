package notify

import "errors"

var ErrInvalidEmailConfig = errors.New("invalid email notifier configuration")
