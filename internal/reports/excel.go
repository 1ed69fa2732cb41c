package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// BuildUnpaidWorkbook собирает xlsx с невыплаченными начислениями:
// лист сводки по работникам и лист детализации по строке на начисление.
func BuildUnpaidWorkbook(loc *time.Location) ([]byte, error) {
	txs, workers, err := db.ListUnpaidTransactions()
	if err != nil {
		return nil, fmt.Errorf("не удалось получить начисления: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Начисления"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Работник", "Телефон", "Заказ", "Сумма, ₽", "Начислено"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 16)
	f.SetColWidth(sheet, "C", "C", 40)
	f.SetColWidth(sheet, "D", "E", 14)

	var total float64
	row := 2
	for _, tx := range txs {
		w := workers[tx.WorkerID]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), w.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), w.Phone)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("#%d %s", tx.OrderID, tx.OrderDescription))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), tx.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), tx.CreatedAt.In(loc).Format("02.01.2006 15:04"))
		total += tx.Amount
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "ИТОГО")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), total)
	if totalStyle, errStyle := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); errStyle == nil {
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), totalStyle)
	}

	if err = addSummarySheet(f, txs, workers, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("не удалось сформировать файл: %w", err)
	}
	return buf.Bytes(), nil
}

// addSummarySheet добавляет первый лист со сводкой сумм по работникам.
func addSummarySheet(f *excelize.File, txs []models.Transaction, workers map[int64]models.Worker, headerStyle int) error {
	const sheet = "Сводка"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("не удалось создать лист сводки: %w", err)
	}
	f.SetActiveSheet(idx)

	headers := []string{"Работник", "Телефон", "Начислений", "К выплате, ₽"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 16)
	f.SetColWidth(sheet, "C", "D", 14)

	// Транзакции приходят упорядоченными по работнику, поэтому
	// сводку можно собрать за один проход.
	type line struct {
		workerID int64
		count    int
		total    float64
	}
	var lines []line
	for _, tx := range txs {
		if len(lines) == 0 || lines[len(lines)-1].workerID != tx.WorkerID {
			lines = append(lines, line{workerID: tx.WorkerID})
		}
		lines[len(lines)-1].count++
		lines[len(lines)-1].total += tx.Amount
	}

	row := 2
	for _, l := range lines {
		w := workers[l.workerID]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), w.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), w.Phone)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), l.count)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), l.total)
		row++
	}
	return nil
}
