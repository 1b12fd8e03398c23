package paie

import "context"

// Service is the synchronous computation surface of the engine: rubrique
// resolution, the NJT ledger and payslip aggregation. The closing batch
// lives in the cloture domain.
type Service interface {
	SetRubriquePaie(ctx context.Context, req SetRubriquePaieRequest) (RubriquePaieResponse, error)
	SetNjt(ctx context.Context, req SetNjtRequest) (bool, error)
	ComputePaie(ctx context.Context, req ComputePaieRequest) (PaieResponse, error)
	ListMotifs(ctx context.Context) ([]MotifResponse, error)
	ListRubriques(ctx context.Context) ([]RubriqueResponse, error)
}
