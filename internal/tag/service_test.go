// AngelaMos | 2026
// service_test.go

package tag

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinco-dev/pinco/internal/core"
	"github.com/pinco-dev/pinco/internal/pin"
)

func ownedPins() memPins {
	return memPins{pinID: {ID: pinID, UserID: ownerID, IsPublic: true}}
}

func TestAddToPinLinksInOneTransaction(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO tags`).
		WithArgs(sqlmock.AnyArg(), "cafe").
		WillReturnRows(sqlmock.NewRows(tagCols).AddRow(tagID, "cafe", now))
	mock.ExpectQuery(`INSERT INTO pin_tags`).
		WithArgs(sqlmock.AnyArg(), pinID, tagID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pin_id", "tag_id", "is_deleted"}).
			AddRow("link-1", pinID, tagID, false))
	mock.ExpectCommit()

	svc := NewService(NewRepository(db), db, ownedPins())
	tg, err := svc.AddToPin(context.Background(), owner, pinID, "  cafe ")
	require.NoError(t, err)
	assert.Equal(t, tagID, tg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToPinRollsBackOnLiveLink(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO tags`).
		WillReturnRows(sqlmock.NewRows(tagCols).AddRow(tagID, "cafe", now))
	mock.ExpectQuery(`INSERT INTO pin_tags`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pin_id", "tag_id", "is_deleted"}))
	mock.ExpectRollback()

	svc := NewService(NewRepository(db), db, ownedPins())
	_, err := svc.AddToPin(context.Background(), owner, pinID, "cafe")
	assert.ErrorIs(t, err, ErrAlreadyLinked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToPinChecksOwnershipBeforeWriting(t *testing.T) {
	db, mock := newMock(t)
	svc := NewService(NewRepository(db), db, ownedPins())

	_, err := svc.AddToPin(context.Background(), other, pinID, "cafe")
	assert.ErrorIs(t, err, pin.ErrNotOwner)

	_, err = svc.AddToPin(context.Background(), owner, pinID, "   ")
	assert.ErrorIs(t, err, ErrInvalidKeyword)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterRejectsUnknownKeyword(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tags`).
		WithArgs("cafe", "nowhere").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	svc := NewService(NewRepository(db), nil, memPins{})
	_, err := svc.Filter(context.Background(), other, []string{"cafe", " nowhere ", "cafe"})
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanKeywords(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{"dedupes and trims", []string{" cafe", "seoul ", "cafe"}, []string{"cafe", "seoul"}, nil},
		{"drops blanks", []string{"", " ", "cafe"}, []string{"cafe"}, nil},
		{"limit counts runes", []string{strings.Repeat("가", MaxKeywordLen)}, []string{strings.Repeat("가", MaxKeywordLen)}, nil},
		{"nothing left", []string{" ", ""}, nil, ErrNoKeywords},
		{"none given", nil, nil, ErrNoKeywords},
		{"too long", []string{strings.Repeat("가", MaxKeywordLen+1)}, nil, ErrInvalidKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanKeywords(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, core.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
