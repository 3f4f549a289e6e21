package models

import "time"

// Visit is one school-visit record.
type Visit struct {
	IDVisita    int64     `db:"id_visita" json:"id_visita"`
	RBD         int64     `db:"rbd" json:"RBD"`
	NomCol      string    `db:"nom_col" json:"nom_col"`
	Region      *string   `db:"region" json:"region,omitempty"`
	Comuna      *int64    `db:"comuna" json:"comuna,omitempty"`
	NomCom      *string   `db:"nom_com" json:"nom_com,omitempty"`
	Inscritos   *int64    `db:"inscritos" json:"inscritos,omitempty"`
	FechaVisita time.Time `db:"fecha_visita" json:"fecha_visita"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// VisitFilter captures visit listing criteria. DateTo is exclusive.
type VisitFilter struct {
	RBD      int64
	Region   string
	Comuna   int64
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// VisitPage is the visit listing response contract.
type VisitPage struct {
	Success      bool    `json:"success"`
	Visitas      []Visit `json:"visitas"`
	TotalVisitas int     `json:"totalVisitas"`
	TotalPages   int     `json:"totalPages"`
	CurrentPage  int     `json:"currentPage"`
}
