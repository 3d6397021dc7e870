package picking

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
)

// MatchOutcome clasifica el resultado de validar un serial escaneado.
type MatchOutcome string

const (
	MatchAccepted           MatchOutcome = "accepted"
	MatchNotFoundInStock    MatchOutcome = "not_found_in_stock"
	MatchDuplicateInSession MatchOutcome = "duplicate_in_session"
	MatchMismatch           MatchOutcome = "mismatch"
)

// MatchResult resultado de un escaneo: el outcome, la unidad involucrada
// (cuando se resolvió) y el SKU padre esperado (en discrepancias).
type MatchResult struct {
	Outcome     MatchOutcome
	Unit        *entity.InventoryUnit
	ExpectedSKU string
}

// Scan valida un serial contra el stock y contra la identidad esperada de la
// orden del operador. El orden de verificación es deliberado: primero los
// chequeos locales baratos (duplicado), después el viaje a persistencia
// (stock, SKU padre) y al final la comparación de identidad.
func (uc *UseCase) Scan(ctx context.Context, operator, serial string) (MatchResult, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return MatchResult{}, domain.ErrInvalidInput
	}

	s, err := uc.activeSession(operator)
	if err != nil {
		return MatchResult{}, err
	}
	if err := s.EnsureScannable(); err != nil {
		return MatchResult{}, err
	}

	// 1. Duplicado dentro de la sesión: se resuelve sin tocar el stock.
	if s.HasSerial(serial) {
		return MatchResult{Outcome: MatchDuplicateInSession}, nil
	}

	// 2. Resolver el serial contra el stock.
	unit, err := uc.units.FindBySerial(ctx, serial)
	if err != nil {
		return MatchResult{}, fmt.Errorf("buscar serial %q: %w", serial, err)
	}
	if unit == nil {
		return MatchResult{Outcome: MatchNotFoundInStock}, nil
	}

	order := s.Order()
	if order == nil {
		return MatchResult{}, domain.ErrNoActiveSession
	}

	// 3. Resolver el SKU publicado de la orden a su SKU padre canónico.
	parentSKU, err := uc.skus.ResolveParent(ctx, order.SKU)
	if err != nil {
		return MatchResult{}, fmt.Errorf("resolver SKU padre de %q: %w", order.SKU, err)
	}

	// 4. Identidad coincide: la unidad entra al conjunto escaneado.
	if unit.SKU == parentSKU {
		if err := s.AddUnit(*unit); err != nil {
			return MatchResult{}, err
		}
		uc.maybeStartCountdown(s)
		return MatchResult{Outcome: MatchAccepted, Unit: unit}, nil
	}

	// 5. Discrepancia: nunca entra en silencio al conjunto a confirmar.
	// Queda pendiente para que el operador la descarte o la eleve a aprobación.
	s.SetMismatch(Mismatch{Unit: *unit, ExpectedSKU: parentSKU})
	return MatchResult{Outcome: MatchMismatch, Unit: unit, ExpectedSKU: parentSKU}, nil
}
