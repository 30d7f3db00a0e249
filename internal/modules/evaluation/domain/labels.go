package domain

// Display labels are keyed by token, never looked up in reverse.

type StatusLabel struct {
	Label string
	Short string
}

var statusLabels = map[Status]StatusLabel{
	StatusNotEvaluated: {Label: "Não Avaliada", Short: "N/A"},
	StatusOK:           {Label: "Conforme", Short: "OK"},

	StatusPoorlyFixed:     {Label: "Mal Fixada", Short: "Fix"},
	StatusFertilizerBurn:  {Label: "Queimada por Adubo", Short: "Adu"},
	StatusHerbicideBurn:   {Label: "Queimada por Herbicida", Short: "Her"},
	StatusDrownedCollar:   {Label: "Coleto Afogado", Short: "Col"},
	StatusLeaningSeedling: {Label: "Muda Inclinada", Short: "Incl"},
	StatusDeadSeedling:    {Label: "Muda Morta", Short: "Mort"},
	StatusExposedCollar:   {Label: "Coleto Exposto", Short: "Exp"},
	StatusBrokenTip:       {Label: "Ponteiro Quebrado", Short: "Queb"},
	StatusEmptyHole:       {Label: "Cova sem Muda", Short: "Vazia"},

	StatusNoFertilizer:      {Label: "Sem Adubo", Short: "S/Adu"},
	StatusExposedFertilizer: {Label: "Adubo Exposto", Short: "AduExp"},
	StatusNoCrowning:        {Label: "Sem Coroamento", Short: "S/Cor"},
	StatusNoDigging:         {Label: "Sem Coveamento", Short: "S/Cov"},
	StatusNoBasin:           {Label: "Sem Coveta", Short: "S/Cvt"},
	StatusWrongDepth:        {Label: "Profundidade Errada", Short: "Prof"},

	StatusStreetProblem: {Label: "Problema na Rua", Short: "Rua"},
	StatusLineProblem:   {Label: "Problema na Linha", Short: "Linha"},
	StatusBothProblem:   {Label: "Problema em Ambos", Short: "Ambos"},
}

func LabelOf(s Status) StatusLabel {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return StatusLabel{Label: string(s), Short: string(s)}
}

var typeLabels = map[EvaluationType]string{
	TypePlanting:     "Avaliação de Plantio",
	TypeSurvival15:   "Avaliação de Sobrevivência de 15 dias",
	TypeSurvival30:   "Avaliação de Sobrevivência de 30 dias",
	TypeSurvival60:   "Avaliação de Sobrevivência de 60 dias",
	TypeSurvival120:  "Avaliação de Sobrevivência de 120 dias",
	TypeHoleQuality:  "Avaliação de qualidade de covas",
	TypeHoleDistance: "Avaliação de Distância de Covas",
}

func (t EvaluationType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

var groupLabels = map[Group]string{
	GroupAll:       "Completo",
	GroupSeedlings: "Mudas",
	GroupHoles:     "Covas",
}

func (g Group) Label() string {
	return groupLabels[g]
}

// SampleTerm is the plural noun used for the category's sample units.
func (c Category) SampleTerm() string {
	if c == CategorySeedling {
		return "Mudas"
	}
	return "Amostras"
}
