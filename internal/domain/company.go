package domain

type Company struct {
	Name      string
	CareerURL string
	Backend   BackendType
	Active    bool
}
