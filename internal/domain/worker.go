package domain

// WorkerRole - роль работника, определяет какой тир компьютеров он обслуживает
type WorkerRole string

const (
	WorkerRoleTechnician WorkerRole = "technician"
	WorkerRoleEngineer   WorkerRole = "engineer"
	WorkerRoleExpert     WorkerRole = "expert"
)

// RoleForTier возвращает роль, которая нужна для компьютеров данного тира
func RoleForTier(tier int) (WorkerRole, bool) {
	switch tier {
	case 1:
		return WorkerRoleTechnician, true
	case 2:
		return WorkerRoleEngineer, true
	case 3:
		return WorkerRoleExpert, true
	}
	return "", false
}

// Valid проверяет, что роль известна
func (r WorkerRole) Valid() bool {
	switch r {
	case WorkerRoleTechnician, WorkerRoleEngineer, WorkerRoleExpert:
		return true
	}
	return false
}

// WorkerType - запись каталога работников
type WorkerType struct {
	ID         string     `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	Cost       int64      `yaml:"cost" json:"cost"`
	Efficiency float64    `yaml:"efficiency" json:"efficiency"`
	Capacity   int        `yaml:"capacity" json:"capacity"`
	Role       WorkerRole `yaml:"role" json:"role"`
}

// OwnedWorker - нанятый работник
type OwnedWorker struct {
	ID   string     `json:"id"`
	Type WorkerType `json:"type"`
}
