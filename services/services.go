package services

import (
	"errors"

	"github.com/puribe/gruposiete/config"
	"github.com/puribe/gruposiete/repositories"
)

// ErrAccessDenied is returned when a permission predicate denies the
// caller. It is the caller-visible form of an authorization failure and
// never wraps an underlying evaluation error.
var ErrAccessDenied = errors.New("access denied")

// Services holds all service instances
type Services struct {
	Catalogo CatalogoService
	Plan     PlanService
	Medida   MedidaService
	Reporte  ReporteService
	User     UserService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, cfg config.Config) *Services {
	return &Services{
		Catalogo: NewCatalogoService(repos.TipoMedida, repos.Verificacion, repos.Organismo),
		Plan:     NewPlanService(repos.Plan, repos.Organismo),
		Medida:   NewMedidaService(repos.Medida, repos.TipoMedida, repos.Plan, repos.Organismo, repos.Verificacion),
		Reporte:  NewReporteService(repos.Reporte, repos.Medida, repos.Organismo),
		User:     NewUserService(repos.User, repos.Organismo, cfg.BcryptCost),
	}
}
