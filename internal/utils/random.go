package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var firstNames = []string{
	"Alice", "Ben", "Carol", "David", "Emma", "Frank", "Grace", "Henry",
	"Iris", "Jack", "Karen", "Liam", "Mia", "Noah", "Olivia", "Peter",
	"Quinn", "Ruth", "Sam", "Tina",
}
var lastNames = []string{
	"Adams", "Baker", "Clark", "Davis", "Evans", "Foster", "Green", "Hall",
	"Irwin", "Jones", "King", "Lewis", "Mills", "Nolan", "Owens", "Price",
	"Reed", "Shaw", "Turner", "Walsh",
}

func GenerateRandomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

func GenerateEmailFromName(name string, emailDomainName string) string {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + emailDomainName
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	name := GenerateRandomName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        GenerateEmailFromName(name, emailDomainName),
		PasswordHash: string(passwordHash),
		Plan:         domain.PlanFree,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// Fisher-Yates shuffle, then take a random non-empty prefix.
func GenerateRandomDays() []time.Weekday {
	days := domain.DefaultDays()

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(len(days)) + 1

	return days[:n]
}

func GenerateRandomSchedule(ownerID int64) *domain.Schedule {
	schedule := &domain.Schedule{
		OwnerID:  ownerID,
		Name:     "Schedule " + GenerateRandomID(3, 3),
		Stations: int32(rand.Intn(3) + 1),
		Days:     GenerateRandomDays(),
		Shifts:   domain.DefaultShifts(),
	}

	// Sometimes disable a shift so seeded data covers that case too
	if rand.Intn(3) == 0 {
		schedule.Shifts[rand.Intn(len(schedule.Shifts))].Enabled = false
	}

	return schedule
}

func GenerateRandomPriority(schedule *domain.Schedule, user *domain.User) *domain.Priority {
	enabled := schedule.EnabledShifts()

	seen := make(map[domain.SlotKey]bool)
	preferences := make([]domain.SlotKey, 0)

	n := rand.Intn(5) + 1
	for i := 0; i < n; i++ {
		key := domain.SlotKey{
			Day:   schedule.Days[rand.Intn(len(schedule.Days))],
			Shift: enabled[rand.Intn(len(enabled))].Name,
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		preferences = append(preferences, key)
	}

	priority := &domain.Priority{
		ScheduleID:  schedule.ID,
		Submitter:   domain.UserRef{ID: user.ID, Name: user.Name, Email: user.Email},
		Preferences: preferences,
	}

	// About half the submissions are scoped to a station
	if rand.Intn(2) == 0 {
		priority.Station = fmt.Sprintf("station%d", rand.Intn(int(schedule.Stations))+1)
	}

	return priority
}
