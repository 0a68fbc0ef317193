package storage

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/sre_weekly/internal/model"
)

func testReport() *model.Report {
	return &model.Report{
		Meta: model.ReportMeta{
			Title:          "全球运维与 AI 周报 (2025-08-20 - 2025-08-26)",
			WeekStart:      "2025-08-20",
			WeekEnd:        "2025-08-26",
			Status:         "Draft",
			OverallSummary: "本周摘要",
		},
		Sections: []model.SectionData{
			{
				Key: "aiNews",
				Records: []model.Record{
					{"title": "A", "news_link": "https://example.com/a"},
					{"title": "B", "news_link": "N/A"},
				},
			},
			{Key: "sreDynamics"},
		},
	}
}

func TestSaveReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := &Storage{db: db}
	rep := testReport()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO report_runs").
		WithArgs("run-1", rep.Meta.Title, rep.Meta.WeekStart, rep.Meta.WeekEnd, rep.Meta.Status, rep.Meta.OverallSummary).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	// 空栏目不产生写入，两条记录各一次
	mock.ExpectExec("INSERT INTO section_records").
		WithArgs(7, "aiNews", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO section_records").
		WithArgs(7, "aiNews", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveReport("run-1", rep))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReport_InsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := &Storage{db: db}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO report_runs").
		WillReturnError(errors.New("duplicate run_id"))
	mock.ExpectRollback()

	err = s.SaveReport("run-1", testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert report run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReport_RecordFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := &Storage{db: db}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO report_runs").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO section_records").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = s.SaveReport("run-1", testReport())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
