package finance

import "errors"

var ErrFinanceRecordNotFound = errors.New("finance record not found")
