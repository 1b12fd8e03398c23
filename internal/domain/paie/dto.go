package paie

import (
	"time"

	"github.com/rim-hr/paie-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ========== RUBRIQUE PAIE DTOs ==========

type SetRubriquePaieRequest struct {
	EmployeeID int64            `json:"employee_id"`
	MotifID    int64            `json:"motif_id"`
	RubriqueID int64            `json:"rubrique_id"`
	Periode    string           `json:"periode"` // YYYY-MM-DD, normalized to first of month
	Base       *decimal.Decimal `json:"base,omitempty"`
	Nombre     *decimal.Decimal `json:"nombre,omitempty"`
	Fixe       bool             `json:"fixe"`
	Overwrite  bool             `json:"overwrite"`
}

func (r *SetRubriquePaieRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be positive"})
	}
	if r.MotifID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "motif_id", Message: "must be positive"})
	}
	if r.RubriqueID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "rubrique_id", Message: "must be positive"})
	}
	if !validator.IsValidDate(r.Periode) {
		errs = append(errs, validator.ValidationError{Field: "periode", Message: "must be a date in YYYY-MM-DD format"})
	}
	if r.Base != nil && r.Base.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base", Message: "must be non-negative"})
	}
	if r.Nombre != nil && r.Nombre.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "nombre", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PeriodeTime parses and normalizes the periode. Validate must have
// passed first.
func (r *SetRubriquePaieRequest) PeriodeTime() time.Time {
	t, _ := time.Parse(dateLayout, r.Periode)
	return NormalizePeriode(t)
}

type RubriquePaieResponse struct {
	EmployeeID int64           `json:"employee_id"`
	MotifID    int64           `json:"motif_id"`
	RubriqueID int64           `json:"rubrique_id"`
	Periode    string          `json:"periode"`
	Base       decimal.Decimal `json:"base"`
	Nombre     decimal.Decimal `json:"nombre"`
	Montant    decimal.Decimal `json:"montant"`
	Fixe       bool            `json:"fixe"`
}

// ========== NJT DTOs ==========

type SetNjtRequest struct {
	EmployeeID int64           `json:"employee_id"`
	MotifID    int64           `json:"motif_id"`
	Periode    string          `json:"periode"`
	Njt        decimal.Decimal `json:"njt"`
}

func (r *SetNjtRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be positive"})
	}
	if r.MotifID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "motif_id", Message: "must be positive"})
	}
	if !validator.IsValidDate(r.Periode) {
		errs = append(errs, validator.ValidationError{Field: "periode", Message: "must be a date in YYYY-MM-DD format"})
	}
	if r.Njt.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "njt", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *SetNjtRequest) PeriodeTime() time.Time {
	t, _ := time.Parse(dateLayout, r.Periode)
	return NormalizePeriode(t)
}

// ========== PAIE DTOs ==========

type ComputePaieRequest struct {
	EmployeeID int64  `json:"employee_id"`
	MotifID    int64  `json:"motif_id"`
	PeriodeDu  string `json:"periode_du"`
	PeriodeAu  string `json:"periode_au"`
}

func (r *ComputePaieRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be positive"})
	}
	if r.MotifID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "motif_id", Message: "must be positive"})
	}
	duOK := validator.IsValidDate(r.PeriodeDu)
	if !duOK {
		errs = append(errs, validator.ValidationError{Field: "periode_du", Message: "must be a date in YYYY-MM-DD format"})
	}
	auOK := validator.IsValidDate(r.PeriodeAu)
	if !auOK {
		errs = append(errs, validator.ValidationError{Field: "periode_au", Message: "must be a date in YYYY-MM-DD format"})
	}
	if duOK && auOK {
		du, au := r.Range()
		if au.Before(du) {
			errs = append(errs, validator.ValidationError{Field: "periode_au", Message: "must not be before periode_du"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ComputePaieRequest) Range() (du, au time.Time) {
	du, _ = time.Parse(dateLayout, r.PeriodeDu)
	au, _ = time.Parse(dateLayout, r.PeriodeAu)
	return du, au
}

type PaieResponse struct {
	EmployeeID     int64           `json:"employee_id"`
	MotifID        int64           `json:"motif_id"`
	Periode        string          `json:"periode"`
	PeriodeDu      string          `json:"periode_du"`
	PeriodeAu      string          `json:"periode_au"`
	BT             decimal.Decimal `json:"bt"`
	BNI            decimal.Decimal `json:"bni"`
	AvantageNature decimal.Decimal `json:"avantage_nature"`
	CNSS           decimal.Decimal `json:"cnss"`
	CNAM           decimal.Decimal `json:"cnam"`
	ITS            decimal.Decimal `json:"its"`
	Net            decimal.Decimal `json:"net"`
	NJT            decimal.Decimal `json:"njt"`
	NbHeures       decimal.Decimal `json:"nb_heures"`
	FTE            decimal.Decimal `json:"fte"`
}

// ========== REFERENCE DTOs ==========

type MotifResponse struct {
	ID             int64  `json:"id"`
	Nom            string `json:"nom"`
	DeclarationITS bool   `json:"declaration_its"`
	ParDefaut      bool   `json:"par_defaut"`
}

type RubriqueResponse struct {
	ID             int64  `json:"id"`
	Libelle        string `json:"libelle"`
	Sens           string `json:"sens"`
	BaseAuto       bool   `json:"base_auto"`
	NombreAuto     bool   `json:"nombre_auto"`
	SoumisCNSS     bool   `json:"soumis_cnss"`
	SoumisCNAM     bool   `json:"soumis_cnam"`
	SoumisITS      bool   `json:"soumis_its"`
	Cumulable      bool   `json:"cumulable"`
	Plafonne       bool   `json:"plafonne"`
	AvantageNature bool   `json:"avantage_nature"`
	Systeme        bool   `json:"systeme"`
}
