package domain

// Допустимые диапазоны числовых полей формы, ноль считается незаполненным
const (
	DefaultPeople = 1
	MaxPeople     = 20

	DefaultHours = 4
	MaxHours     = 24
)

// Intake нормализованные поля формы приёма заявки. Источник -
// внешняя форма на сайте (HTTP) или поток intake-событий в Kafka.
type Intake struct {
	Company       string
	Contact       string
	Email         string
	Phone         string
	City          string
	When          string
	Message       string
	People        int
	HoursEstimate int
}

// поля заявки опциональны в БД: пустые строки храним как NULL
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func clamp(n, fallback, min, max int) int {
	if n == 0 {
		n = fallback
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// Normalize приводит числовые поля к допустимым диапазонам. Вызывается
// на каждом пути приёма, чтобы HTTP-форма и Kafka-события давали
// одинаковые данные в хранилище.
func (f *Intake) Normalize() {
	f.People = clamp(f.People, DefaultPeople, 1, MaxPeople)
	f.HoursEstimate = clamp(f.HoursEstimate, DefaultHours, 1, MaxHours)
}

// ToRequest собирает новую заявку в начальном статусе open
func (f *Intake) ToRequest() *Request {
	return &Request{
		Company:       optString(f.Company),
		Contact:       optString(f.Contact),
		Email:         optString(f.Email),
		Phone:         optString(f.Phone),
		City:          optString(f.City),
		When:          optString(f.When),
		Message:       optString(f.Message),
		People:        optInt(f.People),
		HoursEstimate: optInt(f.HoursEstimate),
		ClaimStatus:   ClaimStatusOpen,
	}
}
