package report

import "errors"

// ErrNoRecipients — набор получателей после объединения и дедупликации пуст.
// Возвращается до первой попытки отправки.
var ErrNoRecipients = errors.New("no recipients to send report to")
