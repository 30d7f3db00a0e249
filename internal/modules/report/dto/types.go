package dto

type ExportAllInput struct {
	Format string
}

type ExportMonthInput struct {
	Format string
	Group  string
	Month  string
}

type ExportOutput struct {
	Path     string
	FileName string
	Format   string
	Rows     int
}
