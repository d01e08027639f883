package model

import "errors"

var ErrLedgerImmutable = errors.New("ledger entries are append-only")
