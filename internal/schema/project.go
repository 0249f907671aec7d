package schema

import "time"

type Member struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty" schema:"optional"`
	Email    string `json:"email,omitempty" schema:"optional"`
	Avatar   string `json:"avatar,omitempty" schema:"optional"`
	Bio      string `json:"bio,omitempty" schema:"optional"`
}

type ClientRepresentative struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName,omitempty" schema:"optional"`
	Email      string `json:"email,omitempty" schema:"optional"`
	ClientRole string `json:"clientRole,omitempty" schema:"optional"`
}

type ProjectTeam struct {
	ProjectLead Member   `json:"projectLead"`
	TeamMembers []Member `json:"teamMembers"`
}

type ScopeOfEngagement struct {
	Quantification              bool `json:"quantification"`
	CostEstimation              bool `json:"costEstimation"`
	ProbabilisticRiskAssessment bool `json:"probabilisticRiskAssessment"`
	BasisOfEstimateReport       bool `json:"basisOfEstimateReport"`
	NumberOfMilestones          int  `json:"numberOfMilestones"`
	EstimatedCompletionDate     Date `json:"estimatedCompletionDate" validate:"required"`
	RemainsAccessibleForNDays   int  `json:"remainsAccessibleForNDays" validate:"required"`
}

type ProgressToDate struct {
	Quantification              int `json:"quantification"`
	CostEstimation              int `json:"costEstimation"`
	ProbabilisticRiskAssessment int `json:"probabilisticRiskAssessment"`
	BasisOfEstimateReport       int `json:"basisOfEstimateReport"`
	NumberOfMilestones          int `json:"numberOfMilestones"`
}

type AnticipatedCompletionDate struct {
	Quantification              Date `json:"quantification"`
	CostEstimation              Date `json:"costEstimation"`
	ProbabilisticRiskAssessment Date `json:"probabilisticRiskAssessment"`
	BasisOfEstimateReport       Date `json:"basisOfEstimateReport"`
}

type CommercialInformation struct {
	CIContractedValue       float64 `json:"ciContractedValue"`
	CIAccrualToDate         float64 `json:"ciAccrualToDate"`
	ApprovedVariationToDate float64 `json:"approvedVariationToDate"`
}

type OptionOutturnCost struct {
	P90  float64 `json:"p90"`
	P50  float64 `json:"p50"`
	Base float64 `json:"base"`
}

// TotalProjectCostPerMilestone keeps the API's "currentMilstone" spelling.
type TotalProjectCostPerMilestone struct {
	LevelOfDesign      string  `json:"levelOfDesign"`
	Date               Date    `json:"date"`
	BaseValue          float64 `json:"baseValue"`
	P90OutturnCost     float64 `json:"p90OutturnCost"`
	P90RiskContingency float64 `json:"p90RiskContingency"`
	P50OutturnCost     float64 `json:"p50OutturnCost"`
	P50RiskContingency float64 `json:"p50RiskContingency"`
	CurrentMilestone   bool    `json:"currentMilstone"`
}

type KeyCostDriver struct {
	Driver string  `json:"driver"`
	Cost   float64 `json:"cost"`
}

type KeyRisk struct {
	Description string `json:"description"`
	Score       string `json:"score"`
	Trend       string `json:"trend"`
}

type DesignPackage struct {
	Description string   `json:"description"`
	Milestones  []string `json:"milestones"`
}

type DesignPackages struct {
	LevelOfDesign DesignPackage   `json:"levelOfDesign"`
	Packages      []DesignPackage `json:"packages"`
}

type Package struct {
	Description   string  `json:"description"`
	Progress      float64 `json:"progress"`
	SecondStageQA bool    `json:"secondStageQA"`
	FinalQAReview bool    `json:"finalQAReview"`
	Submitted     bool    `json:"submitted"`
}

type ProjectBenchmark struct {
	BenchmarkID        string `json:"benchmarkId"`
	DisplayProjectName bool   `json:"displayProjectName"`
}

// Benchmarking is the per-project benchmark configuration. A nil Benchmarks
// slice means benchmarking against other records is not configured; an empty
// one means it is configured with zero entries.
type Benchmarking struct {
	EnableGeographicLocation                 bool               `json:"enableGeographicLocation"`
	EnableTotalConstructionCost              bool               `json:"enableTotalConstructionCost"`
	EnableSquareMetreRateForPavement         bool               `json:"enableSquareMetreRateForPavement"`
	EnableTotalProjectCost                   bool               `json:"enableTotalProjectCost"`
	EnableCubicMetreRateForEarthworks        bool               `json:"enableCubicMetreRateForEarthworks"`
	GeographicLocation                       string             `json:"geographicLocation"`
	TotalConstructionCostPerLaneKm           float64            `json:"totalConstructionCostPerLaneKm"`
	SquareMetreRateForPavementPerBridgePerM2 float64            `json:"squareMetreRateForPavementPerBridgePerM2"`
	TotalProjectCostP90                      float64            `json:"totalProjectCostP90"`
	CubicMetreRateForEarthworksPerM3         float64            `json:"cubicMetreRateForEarthworksPerM3"`
	Benchmarks                               []ProjectBenchmark `json:"benchmarks" schema:"nullable"`
}

type Metrics struct {
	ProgressToDate               ProgressToDate                 `json:"progressToDate"`
	AnticipatedCompletionDate    AnticipatedCompletionDate      `json:"anticipatedCompletionDate"`
	CommercialInformation        CommercialInformation          `json:"commercialInformation"`
	OptionOutturnCosts           []OptionOutturnCost            `json:"optionOutturnCosts" schema:"nullable"`
	TotalProjectCostPerMilestone []TotalProjectCostPerMilestone `json:"totalProjectCostPerMilestone" schema:"nullable"`
	KeyCostDriversBaseValue      float64                        `json:"keyCostDriversBaseValue"`
	KeyCostDrivers               []KeyCostDriver                `json:"keyCostDrivers" schema:"nullable"`
	KeyRisks                     []KeyRisk                      `json:"keyRisks" schema:"nullable"`
	ValueManagementOpportunities []string                       `json:"valueManagementOpportunities" schema:"nullable"`
	DesignPackages               *DesignPackages                `json:"designPackages" schema:"nullable"`
	Packages                     [][]Package                    `json:"packages" schema:"nullable"`
	Benchmarking                 Benchmarking                   `json:"benchmarking"`
}

type Project struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name" validate:"notblank"`
	Client               string               `json:"client" validate:"notblank"`
	Region               string               `json:"region" validate:"notblank"`
	CIProjectNumber      string               `json:"ciProjectNumber" validate:"notblank"`
	ClientProjectNumber  string               `json:"clientProjectNumber" validate:"notblank"`
	ClientRepresentative ClientRepresentative `json:"clientRepresentative"`
	Team                 ProjectTeam          `json:"team"`
	Scope                ScopeOfEngagement    `json:"scope"`
	StartDate            Date                 `json:"startDate" validate:"required"`
	CompletionDate       Date                 `json:"completionDate"`
	Status               string               `json:"status"`
	Metrics              Metrics              `json:"metrics"`
}

const StatusCompleted = "completed"

// Completed reports whether the project has been marked as completed.
func (p *Project) Completed() bool {
	return p.Status == StatusCompleted
}

// EmptyProject is the template behind the create-project form.
func EmptyProject() Project {
	now := time.Now()
	return Project{
		Team: ProjectTeam{
			TeamMembers: []Member{{}, {}},
		},
		Metrics: Metrics{
			AnticipatedCompletionDate: AnticipatedCompletionDate{
				Quantification:              NewDate(now),
				CostEstimation:              NewDate(now),
				ProbabilisticRiskAssessment: NewDate(now),
				BasisOfEstimateReport:       NewDate(now),
			},
		},
	}
}
