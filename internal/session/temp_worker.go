package session

// TempWorkerData — черновик анкеты работника во время онбординга.
type TempWorkerData struct {
	Phone       string
	Name        string
	City        string
	District    string
	Citizenship string
	Country     string

	CurrentMessageID int // сообщение анкеты, которое редактируем на каждом шаге
}
