package domain

import "time"

// ComputerClass - класс компьютера (используется в требованиях ребёрта)
type ComputerClass string

const (
	ComputerClassBasic   ComputerClass = "basic"
	ComputerClassGaming  ComputerClass = "gaming"
	ComputerClassRig     ComputerClass = "rig"
	ComputerClassServer  ComputerClass = "server"
	ComputerClassQuantum ComputerClass = "quantum"
)

// ComputerClasses - все известные классы, в порядке возрастания
var ComputerClasses = []ComputerClass{
	ComputerClassBasic,
	ComputerClassGaming,
	ComputerClassRig,
	ComputerClassServer,
	ComputerClassQuantum,
}

// Valid проверяет, что класс известен
func (c ComputerClass) Valid() bool {
	for _, k := range ComputerClasses {
		if k == c {
			return true
		}
	}
	return false
}

// ComputerType - запись каталога компьютеров (неизменяемая)
type ComputerType struct {
	ID         string        `yaml:"id" json:"id"`
	Name       string        `yaml:"name" json:"name"`
	Cost       int64         `yaml:"cost" json:"cost"`
	MiningRate float64       `yaml:"mining_rate" json:"mining_rate"`
	Tier       int           `yaml:"tier" json:"tier"`
	Class      ComputerClass `yaml:"class" json:"class"`
	Token      string        `yaml:"token" json:"token_earned"`
	Icon       string        `yaml:"icon" json:"icon"`
	Unlocked   bool          `yaml:"unlocked" json:"unlocked"`
}

// Cell - клетка сетки размещения
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// OwnedComputer - купленный компьютер
type OwnedComputer struct {
	ID              string       `json:"id"`
	Type            ComputerType `json:"type"`
	Token           string       `json:"token"`
	Cell            Cell         `json:"cell"`
	PendingEarnings int64        `json:"pending_earnings"`
	LastCollectedAt time.Time    `json:"last_collected_at"`
}
