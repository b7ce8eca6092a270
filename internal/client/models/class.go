package models

// Class is one catalog entry from GET /clase.
type Class struct {
	Name        string `json:"Nombre"`
	Description string `json:"Descripcion"`
	Duration    string `json:"Duracion"`
	Schedule    string `json:"fecha_horario_al_que_va"`
}

// ScheduledClass is one entry from GET /clasesProgramadas; the same shape is
// posted back when scheduling a new class.
type ScheduledClass struct {
	Trainer      string `json:"entrenador"`
	TrainerEmail string `json:"email_entrenador"`
	ClassName    string `json:"nombre_clase"`
	Duration     string `json:"duracion"`
	Time         string `json:"horario"`
	Date         string `json:"fecha"`
}
