package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	TipoMedida   TipoMedidaRepository
	Verificacion VerificacionRepository
	Organismo    OrganismoRepository
	Plan         PlanRepository
	Medida       MedidaRepository
	Reporte      ReporteRepository
	User         UserRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		TipoMedida:   NewTipoMedidaRepository(db),
		Verificacion: NewVerificacionRepository(db),
		Organismo:    NewOrganismoRepository(db),
		Plan:         NewPlanRepository(db),
		Medida:       NewMedidaRepository(db),
		Reporte:      NewReporteRepository(db),
		User:         NewUserRepository(db),
	}
}
