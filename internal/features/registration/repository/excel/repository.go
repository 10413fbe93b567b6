package excel

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"giveaway-registration-bot/internal/features/registration/models"
	"giveaway-registration-bot/internal/features/registration/repository"
)

const timeLayout = "2006-01-02 15:04:05"

var header = []interface{}{
	"ID пользователя",
	"Username Telegram",
	"ФИО родителя",
	"Школа ребенка",
	"Класс ребенка",
	"Номер телефона",
	"Код участника",
	"Дата регистрации",
}

// excelRepository хранит участников в xlsx-книге. Вся последовательность
// "открыть книгу → дописать строку → сохранить" выполняется под одним
// мьютексом: таблица одна на процесс, конкурентные записи недопустимы.
type excelRepository struct {
	path string
	mu   sync.Mutex
}

func NewExcelRepository(path string) repository.ParticipantRepository {
	return &excelRepository{path: path}
}

// Find ищет участника по Telegram ID. Отсутствие файла не считается ошибкой.
func (r *excelRepository) Find(ctx context.Context, telegramID int64) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.readRows()
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil || id != telegramID {
			continue
		}
		return rowToParticipant(row), nil
	}

	return nil, nil
}

// Append дописывает одну строку, создавая книгу с заголовком при первом обращении.
func (r *excelRepository) Append(ctx context.Context, participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var file *excelize.File
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		file = excelize.NewFile()
		sheet := file.GetSheetName(0)
		if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
			file.Close()
			return fmt.Errorf("failed to write header: %w", err)
		}
	} else {
		file, err = excelize.OpenFile(r.path)
		if err != nil {
			return fmt.Errorf("failed to open participants file: %w", err)
		}
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	rows, err := file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read participants sheet: %w", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("failed to locate next row: %w", err)
	}

	row := []interface{}{
		strconv.FormatInt(participant.TelegramID, 10),
		participant.Username,
		participant.GuardianName,
		participant.ChildSchool,
		participant.ChildClass,
		participant.PhoneNumber,
		participant.Code,
		participant.RegisteredAt.Format(timeLayout),
	}
	if err := file.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to append participant row: %w", err)
	}

	if err := file.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to save participants file: %w", err)
	}

	return nil
}

// Count возвращает число зарегистрированных участников.
func (r *excelRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.readRows()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// readRows возвращает строки данных без заголовка; nil, если файла еще нет.
func (r *excelRepository) readRows() ([][]string, error) {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return nil, nil
	}

	file, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open participants file: %w", err)
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read participants sheet: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func rowToParticipant(row []string) *models.Participant {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	participant := &models.Participant{
		Username:     cell(1),
		GuardianName: cell(2),
		ChildSchool:  cell(3),
		ChildClass:   cell(4),
		PhoneNumber:  cell(5),
		Code:         cell(6),
	}
	participant.TelegramID, _ = strconv.ParseInt(cell(0), 10, 64)
	if ts, err := time.ParseInLocation(timeLayout, cell(7), time.Local); err == nil {
		participant.RegisteredAt = ts
	}
	return participant
}
