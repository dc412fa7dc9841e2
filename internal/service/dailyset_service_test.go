package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"factfake_backend/internal/model"
	"factfake_backend/internal/util"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func publishedSet(id uint) *model.DailySet {
	set := &model.DailySet{Status: model.DailySetPublished}
	set.ID = id
	return set
}

func completionOf(setID uint, completedAt time.Time) *model.DailySetCompletion {
	completion := &model.DailySetCompletion{DailySetID: setID, UserID: 1}
	completion.CreatedAt = completedAt
	return completion
}

func TestResolveRecentCompletion(t *testing.T) {
	today := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, 4, 8, 14, 0, 0, 0, time.UTC)

	t.Run("no recent completion", func(t *testing.T) {
		if got := resolveRecentCompletion(publishedSet(5), nil, today); got != nil {
			t.Fatalf("expected nil result, got %+v", got)
		}
	})

	t.Run("completed today's set", func(t *testing.T) {
		got := resolveRecentCompletion(publishedSet(5), completionOf(5, completedAt), today)
		if got == nil || got.State != StateCompleted {
			t.Fatalf("result = %+v, want completed", got)
		}
		if got.SetID != 5 {
			t.Fatalf("setId = %d, want 5", got.SetID)
		}
		if got.UnlocksAt == nil || !got.UnlocksAt.Equal(completedAt.AddDate(0, 0, 7)) {
			t.Fatalf("unlocksAt = %v", got.UnlocksAt)
		}
		if len(got.Questions) != 0 {
			t.Fatalf("locked-period result carries %d questions", len(got.Questions))
		}
	})

	t.Run("locked by another set's completion", func(t *testing.T) {
		got := resolveRecentCompletion(publishedSet(6), completionOf(5, completedAt), today)
		if got == nil || got.State != StateLocked {
			t.Fatalf("result = %+v, want locked", got)
		}
		if got.SetID != 6 {
			t.Fatalf("setId = %d, want 6", got.SetID)
		}
		if got.LastResult == nil || got.LastResult.DailySetID != 5 {
			t.Fatalf("lastResult = %+v", got.LastResult)
		}
	})

	t.Run("locked with no published set", func(t *testing.T) {
		got := resolveRecentCompletion(nil, completionOf(5, completedAt), today)
		if got == nil || got.State != StateLocked {
			t.Fatalf("result = %+v, want locked", got)
		}
		if got.SetID != 0 {
			t.Fatalf("setId = %d, want 0", got.SetID)
		}
	})
}

func TestSubmissionLockout(t *testing.T) {
	completedAt := time.Now().AddDate(0, 0, -2)

	if err := submissionLockoutErr(nil, 9); err != nil {
		t.Fatalf("no recent completion should pass, got %v", err)
	}

	// 锁定期内提交另一题组：即使客户端拿到了题组 ID 也必须被拒绝
	if err := submissionLockoutErr(completionOf(5, completedAt), 9); !errors.Is(err, util.ErrSetLocked) {
		t.Fatalf("expected ErrSetLocked, got %v", err)
	}

	// 重复提交同一题组归为已提交，不是锁定
	if err := submissionLockoutErr(completionOf(9, completedAt), 9); !errors.Is(err, util.ErrSetAlreadySubmitted) {
		t.Fatalf("expected ErrSetAlreadySubmitted, got %v", err)
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm", fmt.Errorf("create completion: %w", gorm.ErrDuplicatedKey), true},
		{"mysql 1062", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"other mysql error", &mysql.MySQLError{Number: 1452}, false},
		{"unrelated", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateKeyErr(tt.err); got != tt.want {
				t.Fatalf("isDuplicateKeyErr(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStandingFromCounts(t *testing.T) {
	tests := []struct {
		name           string
		better, worse  int64
		total          int64
		wantPosition   int
		wantPercentile int
	}{
		{"sole submitter", 0, 0, 1, 1, 0},
		{"top of field", 0, 9, 10, 1, 90},
		{"mid field", 4, 5, 10, 5, 50},
		{"bottom of field", 9, 0, 10, 10, 0},
		{"rounding", 0, 2, 3, 1, 67},
		{"no submitters", 0, 0, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			position, percentile := standingFromCounts(tt.better, tt.worse, tt.total)
			if position != tt.wantPosition || percentile != tt.wantPercentile {
				t.Fatalf("got (%d, %d), want (%d, %d)", position, percentile, tt.wantPosition, tt.wantPercentile)
			}
		})
	}
}
