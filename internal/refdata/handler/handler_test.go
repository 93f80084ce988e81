package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"doctrack/internal/refdata/models"
	"doctrack/internal/refdata/store/requireddays"
	"doctrack/pkg/testutil"
)

type RefdataHandlerSuite struct {
	suite.Suite
	store  *requireddays.InMemory
	router chi.Router
}

func (s *RefdataHandlerSuite) SetupTest() {
	s.store = requireddays.NewInMemory()
	s.router = chi.NewRouter()
	New(s.store, slog.New(slog.DiscardHandler), nil).Register(s.router)
}

func TestRefdataHandlerSuite(t *testing.T) {
	suite.Run(t, new(RefdataHandlerSuite))
}

func (s *RefdataHandlerSuite) createEntry(documentType, actionRequired string, days int) *models.RequiredDaysEntry {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/refdata/required-days", map[string]any{
			"documentType":   documentType,
			"actionRequired": actionRequired,
			"requiredDays":   days,
		}))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.RequiredDaysEntry](s.T(), rr)
}

func (s *RefdataHandlerSuite) TestCreateAndList() {
	created := s.createEntry("Memo", "Reply", 5)
	s.False(created.ID.IsNil())

	rr := testutil.DoRequest(s.router,
		testutil.NewJSONRequest(s.T(), http.MethodGet, "/refdata/required-days", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	entries := testutil.UnmarshalResponse[[]models.RequiredDaysEntry](s.T(), rr)
	s.Require().Len(*entries, 1)
	s.Equal(5, (*entries)[0].RequiredDays)
}

func (s *RefdataHandlerSuite) TestCreateValidation() {
	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing document type", map[string]any{"actionRequired": "Reply", "requiredDays": 5}},
		{"missing action", map[string]any{"documentType": "Memo", "requiredDays": 5}},
		{"zero days", map[string]any{"documentType": "Memo", "actionRequired": "Reply", "requiredDays": 0}},
		{"negative days", map[string]any{"documentType": "Memo", "actionRequired": "Reply", "requiredDays": -1}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(),
				http.MethodPost, "/refdata/required-days", tc.payload))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
		})
	}
}

func (s *RefdataHandlerSuite) TestDuplicatePair() {
	s.createEntry("Memo", "Reply", 5)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/refdata/required-days", map[string]any{
			"documentType":   "memo",
			"actionRequired": "REPLY",
			"requiredDays":   7,
		}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *RefdataHandlerSuite) TestUpdate() {
	created := s.createEntry("Memo", "Reply", 5)
	path := "/refdata/required-days/" + created.ID.String()

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, path,
		map[string]any{"documentType": "Memo", "actionRequired": "Reply", "requiredDays": 10}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	updated := testutil.UnmarshalResponse[models.RequiredDaysEntry](s.T(), rr)
	s.Equal(10, updated.RequiredDays)

	s.Run("unknown id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut,
			"/refdata/required-days/0b5e9bdd-4bb2-4916-b73c-07c7862a7bd0",
			map[string]any{"documentType": "Memo", "actionRequired": "File", "requiredDays": 3}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *RefdataHandlerSuite) TestDelete() {
	created := s.createEntry("Memo", "Reply", 5)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete,
		"/refdata/required-days/"+created.ID.String(), nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	s.Run("already gone", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete,
			"/refdata/required-days/"+created.ID.String(), nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *RefdataHandlerSuite) TestBulkDelete() {
	a := s.createEntry("Memo", "Reply", 5)
	s.createEntry("Letter", "File", 10)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete,
		"/refdata/required-days", map[string]any{"ids": []string{a.ID.String()}}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	list := testutil.DoRequest(s.router,
		testutil.NewJSONRequest(s.T(), http.MethodGet, "/refdata/required-days", nil))
	entries := testutil.UnmarshalResponse[[]models.RequiredDaysEntry](s.T(), list)
	s.Len(*entries, 1)

	s.Run("empty ids rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete,
			"/refdata/required-days", map[string]any{"ids": []string{}}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
	})
}
