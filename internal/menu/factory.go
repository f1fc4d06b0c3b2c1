package menu

import (
	"fmt"

	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
	"github.com/angelmondragon/bitefinderz-backend/pkg/metrics"
	"github.com/google/uuid"
)

// ServiceFactory spawns one view service per live client connection.
type ServiceFactory struct {
	rules RuleProvider
	items ItemLister
	carts QuantitySource
	logg  *logger.Logger
	met   *metrics.ResolutionMetrics
}

// NewServiceFactory captures the shared dependencies.
func NewServiceFactory(
	rules RuleProvider,
	items ItemLister,
	carts QuantitySource,
	logg *logger.Logger,
	met *metrics.ResolutionMetrics,
) (*ServiceFactory, error) {
	if rules == nil || items == nil || carts == nil {
		return nil, fmt.Errorf("rule provider, item lister and quantity source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &ServiceFactory{
		rules: rules,
		items: items,
		carts: carts,
		logg:  logg,
		met:   met,
	}, nil
}

// New builds a service bound to one cart and catalog scope.
func (f *ServiceFactory) New(cartID string, categoryID *uuid.UUID) (*Service, error) {
	return NewService(f.rules, f.items, f.carts, f.logg, f.met, cartID, categoryID)
}
