package social

import (
	"fmt"
	"strings"
)

// ReconcileError agrupa los errores de validación que impidieron crear
// la cuenta. No se reintenta: es un conflicto de datos, no algo
// transitorio.
type ReconcileError struct {
	Errors []string
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconciliation failed: %s", strings.Join(e.Errors, "; "))
}

// Tagged outcomes del flujo de callback, usados como label de métrica.
const (
	ResultOK              = "ok"
	ResultMissingCode     = "missing_code"
	ResultMissingState    = "missing_state"
	ResultStateInvalid    = "state_invalid"
	ResultExchangeFailed  = "token_exchange_failed"
	ResultProfileFailed   = "profile_fetch_failed"
	ResultNormalizeFailed = "normalization_failed"
	ResultReconcileFailed = "reconciliation_failed"
	ResultUnknownProvider = "unknown_provider"
)
