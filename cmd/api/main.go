package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rim-hr/paie-backend-go/internal/config"
	"github.com/rim-hr/paie-backend-go/internal/domain/cloture"
	"github.com/rim-hr/paie-backend-go/internal/domain/employee"
	"github.com/rim-hr/paie-backend-go/internal/domain/engagement"
	"github.com/rim-hr/paie-backend-go/internal/domain/paie"
	"github.com/rim-hr/paie-backend-go/internal/domain/parametres"
	appHTTP "github.com/rim-hr/paie-backend-go/internal/handler/http"
	"github.com/rim-hr/paie-backend-go/internal/pkg/database"
	"github.com/rim-hr/paie-backend-go/internal/pkg/jwt"
	"github.com/rim-hr/paie-backend-go/internal/repository/memory"
	"github.com/rim-hr/paie-backend-go/internal/repository/postgresql"
	clotureService "github.com/rim-hr/paie-backend-go/internal/service/cloture"
	paieService "github.com/rim-hr/paie-backend-go/internal/service/paie"
)

type repositories struct {
	employeeRepo     employee.EmployeeRepository
	categorieRepo    employee.CategorieRepository
	motifRepo        paie.MotifRepository
	rubriqueRepo     paie.RubriqueRepository
	rubriquePaieRepo paie.RubriquePaieRepository
	njtRepo          paie.NjtRepository
	paieRepo         paie.PaieRepository
	engagementRepo   engagement.EngagementRepository
	parametresRepo   parametres.ParametresRepository
	staging          cloture.StagingStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var repos repositories
	switch cfg.App.Store {
	case config.StorePostgreSQL:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			fmt.Println("Error connecting to database:", err)
			return
		}
		repos = repositories{
			employeeRepo:     postgresql.NewEmployeeRepository(db),
			categorieRepo:    postgresql.NewCategorieRepository(db),
			motifRepo:        postgresql.NewMotifRepository(db),
			rubriqueRepo:     postgresql.NewRubriqueRepository(db),
			rubriquePaieRepo: postgresql.NewRubriquePaieRepository(db),
			njtRepo:          postgresql.NewNjtRepository(db),
			paieRepo:         postgresql.NewPaieRepository(db),
			engagementRepo:   postgresql.NewEngagementRepository(db),
			parametresRepo:   postgresql.NewParametresRepository(db),
			staging:          postgresql.NewStagingStore(db),
		}
	case config.StoreMemory:
		store := memory.NewStore()
		store.Seed(time.Now().UTC())
		repos = repositories{
			employeeRepo:     memory.NewEmployeeRepository(store),
			categorieRepo:    memory.NewCategorieRepository(store),
			motifRepo:        memory.NewMotifRepository(store),
			rubriqueRepo:     memory.NewRubriqueRepository(store),
			rubriquePaieRepo: memory.NewRubriquePaieRepository(store),
			njtRepo:          memory.NewNjtRepository(store),
			paieRepo:         memory.NewPaieRepository(store),
			engagementRepo:   memory.NewEngagementRepository(store),
			parametresRepo:   memory.NewParametresRepository(store),
			staging:          memory.NewStagingStore(store),
		}
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	calculator := paieService.NewCalculator()
	resolver := paieService.NewResolver(
		calculator,
		repos.employeeRepo,
		repos.categorieRepo,
		repos.motifRepo,
		repos.rubriqueRepo,
		repos.rubriquePaieRepo,
		repos.njtRepo,
	)
	aggregator := paieService.NewAggregator(
		calculator,
		repos.employeeRepo,
		repos.motifRepo,
		repos.rubriqueRepo,
		repos.rubriquePaieRepo,
		repos.njtRepo,
		repos.paieRepo,
		repos.parametresRepo,
	)
	paieSvc := paieService.NewPaieService(
		resolver,
		aggregator,
		repos.motifRepo,
		repos.rubriqueRepo,
		repos.njtRepo,
	)
	clotureSvc := clotureService.NewClotureService(
		repos.employeeRepo,
		repos.categorieRepo,
		repos.motifRepo,
		repos.rubriquePaieRepo,
		repos.njtRepo,
		repos.paieRepo,
		repos.engagementRepo,
		repos.parametresRepo,
		repos.staging,
		resolver,
	)

	paieHandler := appHTTP.NewPaieHandler(paieSvc)
	clotureHandler := appHTTP.NewClotureHandler(clotureSvc)

	router := appHTTP.NewRouter(cfg.App.Env, JWTService, paieHandler, clotureHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
