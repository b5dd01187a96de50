package anki_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/ankibridge/internal/anki"
	apperrors "github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/models"
	"github.com/vytor/ankibridge/internal/provider"
	"github.com/vytor/ankibridge/internal/testutil/mocks"
)

func path(p string) any {
	return mock.MatchedBy(func(u provider.URI) bool { return u.Path == p })
}

func noteCursor(rows ...[]any) *provider.StaticCursor {
	return provider.NewStaticCursor([]string{"_id", "mid", "flds", "sfld"}, rows...)
}

type ClientSuite struct {
	suite.Suite
	ctx      context.Context
	resolver *mocks.MockResolver
	packages *mocks.MockPackageManager
	client   *anki.Client
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
	s.resolver = new(mocks.MockResolver)
	s.packages = new(mocks.MockPackageManager)
	s.client = anki.New(s.resolver, s.packages)
}

func (s *ClientSuite) available() {
	s.packages.Available()
}

func (s *ClientSuite) expectModel(modelID int64, blob string) {
	s.resolver.On("Query", mock.Anything, path(fmt.Sprintf("models/%d", modelID)), []string{"field_names"}, "", []string(nil), "").
		Return(provider.NewStaticCursor([]string{"field_names"}, []any{blob}), nil).Once()
}

func (s *ClientSuite) expectDeckName(deckID int64, name any) {
	s.resolver.On("Query", mock.Anything, path(fmt.Sprintf("decks/%d", deckID)), []string{"deck_name"}, "", []string(nil), "").
		Return(provider.NewStaticCursor([]string{"deck_name"}, []any{name}), nil).Once()
}

func (s *ClientSuite) expectNote(noteID int64, blob string) {
	s.resolver.On("Query", mock.Anything, path("notes_v2"), []string{"_id", "flds"}, "id=?", []string{fmt.Sprint(noteID)}, "").
		Return(provider.NewStaticCursor([]string{"_id", "flds"}, []any{noteID, blob}), nil).Once()
}

// --- Status ---

func (s *ClientSuite) TestStatus_NotInstalled() {
	s.packages.On("IsInstalled", mock.Anything, provider.Package).Return(false)
	s.packages.On("ResolveProvider", mock.Anything, provider.Authority).Return(false)

	st := s.client.Status(s.ctx)

	s.Assert().False(st.Installed)
	s.Assert().False(st.ProviderAccessible)
	s.Require().NotNil(st.LastErrorCode)
	s.Assert().Equal(apperrors.ErrCodeNotInstalled, *st.LastErrorCode)
	s.resolver.AssertNumberOfCalls(s.T(), "Query", 0)
}

func (s *ClientSuite) TestStatus_ProviderNotVisible() {
	s.packages.On("IsInstalled", mock.Anything, provider.Package).Return(true)
	s.packages.On("ResolveProvider", mock.Anything, provider.Authority).Return(false)

	st := s.client.Status(s.ctx)

	s.Assert().True(st.Installed)
	s.Assert().False(st.ProviderVisible)
	s.Assert().Equal(apperrors.ErrCodeProviderNotFound, *st.LastErrorCode)
}

func (s *ClientSuite) TestStatus_ProbeFailures() {
	tests := []struct {
		name string
		cur  any
		err  error
		code string
	}{
		{name: "null cursor", cur: nil, err: nil, code: apperrors.ErrCodeNullCursor},
		{name: "permission", cur: nil, err: provider.ErrPermissionDenied, code: apperrors.ErrCodePermissionDenied},
		{name: "other", cur: nil, err: errors.New("binder died"), code: apperrors.ErrCodeQueryFailed},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.available()
			s.resolver.On("Query", mock.Anything, path("notes_v2"), []string{"_id"}, "1=0", []string(nil), "").
				Return(tt.cur, tt.err)

			st := s.client.Status(s.ctx)

			s.Assert().True(st.Installed)
			s.Assert().True(st.ProviderVisible)
			s.Assert().False(st.ProviderAccessible)
			s.Require().NotNil(st.LastErrorCode)
			s.Assert().Equal(tt.code, *st.LastErrorCode)
			s.Assert().NotEmpty(*st.LastErrorMessage)
		})
	}
}

func (s *ClientSuite) TestStatus_Accessible() {
	s.available()
	cur := provider.NewStaticCursor([]string{"_id"})
	s.resolver.On("Query", mock.Anything, path("notes_v2"), []string{"_id"}, "1=0", []string(nil), "").Return(cur, nil)

	st := s.client.Status(s.ctx)

	s.Assert().Equal(models.Status{Installed: true, ProviderVisible: true, ProviderAccessible: true}, st)
	s.Assert().True(cur.Closed())
}

// --- Decks ---

func (s *ClientSuite) TestDecks_ParsesCountsInProviderOrder() {
	s.available()
	cur := provider.NewStaticCursor([]string{"deck_id", "deck_name", "deck_count"},
		[]any{int64(5), "Verbs", "[3,5,7]"},
		[]any{int64(1), "Default", "broken"},
		[]any{int64(9), "Nouns", nil},
	)
	s.resolver.On("Query", mock.Anything, path("decks"), []string{"deck_id", "deck_name", "deck_count"}, "", []string(nil), "").Return(cur, nil)

	decks, err := s.client.Decks(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(decks, 3)
	s.Assert().Equal(int64(5), decks[0].DeckID)
	s.Assert().Equal("Verbs", decks[0].DeckName)
	s.Assert().Equal(3, *decks[0].LearnCount)
	s.Assert().Equal(5, *decks[0].ReviewCount)
	s.Assert().Equal(7, *decks[0].NewCount)
	s.Assert().Equal("Default", decks[1].DeckName)
	s.Assert().Nil(decks[1].NewCount)
	s.Assert().Nil(decks[2].LearnCount)
	s.Assert().True(cur.Closed())
}

func (s *ClientSuite) TestDecks_MissingCountColumnTolerated() {
	s.available()
	cur := provider.NewStaticCursor([]string{"deck_id", "deck_name"}, []any{int64(1), "Default"})
	s.resolver.On("Query", mock.Anything, path("decks"), mock.Anything, "", []string(nil), "").Return(cur, nil)

	decks, err := s.client.Decks(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(decks, 1)
	s.Assert().Nil(decks[0].NewCount)
}

func (s *ClientSuite) TestDecks_SchemaMismatch() {
	s.available()
	cols := []string{"deck_id", "title"}
	s.resolver.On("Query", mock.Anything, path("decks"), mock.Anything, "", []string(nil), "").
		Return(provider.NewStaticCursor(cols), nil)

	_, err := s.client.Decks(s.ctx)

	s.Require().ErrorIs(err, apperrors.SchemaMismatch)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(cols, appErr.Detail)
}

func (s *ClientSuite) TestDecks_Preconditions() {
	s.packages.On("IsInstalled", mock.Anything, mock.Anything).Return(false)

	_, err := s.client.Decks(s.ctx)

	s.Assert().ErrorIs(err, apperrors.NotInstalled)
	s.resolver.AssertNumberOfCalls(s.T(), "Query", 0)
}

func (s *ClientSuite) TestDecks_ProviderErrors() {
	s.available()
	s.resolver.On("Query", mock.Anything, path("decks"), mock.Anything, "", []string(nil), "").
		Return(nil, fmt.Errorf("wrapped: %w", provider.ErrPermissionDenied)).Once()
	_, err := s.client.Decks(s.ctx)
	s.Assert().ErrorIs(err, apperrors.PermissionDenied)

	s.resolver.On("Query", mock.Anything, path("decks"), mock.Anything, "", []string(nil), "").
		Return(nil, errors.New("disk I/O error")).Once()
	_, err = s.client.Decks(s.ctx)
	s.Assert().ErrorIs(err, apperrors.QueryFailed)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal("disk I/O error", appErr.Detail)
}

// --- TodayNewCards ---

func (s *ClientSuite) TestTodayNewCards_ZeroLimitIssuesNoQuery() {
	s.available()

	cards, err := s.client.TodayNewCards(s.ctx, 3, 0)

	s.Require().NoError(err)
	s.Assert().Empty(cards)
	s.resolver.AssertNumberOfCalls(s.T(), "Query", 0)
}

func (s *ClientSuite) TestTodayNewCards_InvalidDeck() {
	s.available()

	for _, deckID := range []int64{0, -4} {
		_, err := s.client.TodayNewCards(s.ctx, deckID, 10)
		s.Assert().ErrorIs(err, apperrors.InvalidArgument)
	}
	s.resolver.AssertNumberOfCalls(s.T(), "Query", 0)
}

func (s *ClientSuite) TestTodayNewCards_RehydratesFields() {
	s.available()
	sortField := "hola"
	s.resolver.On("Query", mock.Anything, path("notes_v2"), []string{"_id", "mid", "flds", "sfld"},
		"id IN (SELECT nid FROM cards WHERE did=? AND type=0 AND queue=0)", []string{"3"},
		"(SELECT MIN(cards.id) FROM cards WHERE cards.nid = notes.id AND did=3 AND type=0 AND queue=0) ASC, id ASC").
		Return(noteCursor(
			[]any{int64(100), int64(77), "hello\x1fworld\x1fextra", "hello"},
			[]any{int64(101), int64(77), " \x1fback", sortField},
		), nil)
	s.expectDeckName(3, "Spanish")
	s.expectModel(77, "Front\x1fBack")

	cards, err := s.client.TodayNewCards(s.ctx, 3, 20)

	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal(models.CardView{
		CardID:    "100",
		ModelID:   77,
		DeckName:  "Spanish",
		FrontText: "hello",
		BackFields: []models.FieldValue{
			{Name: "Front", Value: "hello"},
			{Name: "Back", Value: "world"},
			{Name: "Field 3", Value: "extra"},
		},
	}, cards[0])
	s.Assert().Equal("101", cards[1].CardID)
	s.Assert().Equal("hola", cards[1].FrontText)
	// The model lookup is cached between rows.
	s.resolver.AssertNumberOfCalls(s.T(), "Query", 3)
}

func (s *ClientSuite) TestTodayNewCards_BlankRowsDoNotConsumeLimit() {
	s.available()
	s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(noteCursor(
			[]any{int64(1), int64(9), "  ", nil},
			[]any{int64(2), int64(9), "", nil},
			[]any{int64(3), int64(9), "a", nil},
			[]any{int64(4), int64(9), "b", nil},
			[]any{int64(5), int64(9), "c", nil},
		), nil)
	s.expectDeckName(8, "")
	s.resolver.On("Query", mock.Anything, path("models/9"), mock.Anything, "", []string(nil), "").Return(nil, errors.New("gone"))

	cards, err := s.client.TodayNewCards(s.ctx, 8, 2)

	s.Require().NoError(err)
	s.Require().Len(cards, 2)
	s.Assert().Equal("3", cards[0].CardID)
	s.Assert().Equal("4", cards[1].CardID)
	s.Assert().Equal("Unknown Deck", cards[0].DeckName)
	s.Assert().Equal("Field 1", cards[0].BackFields[0].Name)
	s.Assert().Equal("a", cards[0].BackFields[0].Value)
}

func (s *ClientSuite) TestTodayNewCards_FrontFallsBackToEmpty() {
	s.available()
	s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(provider.NewStaticCursor([]string{"id", "mid", "flds"}, []any{int64(1), int64(9), " \x1fback"}), nil)
	s.expectDeckName(8, "Deck")
	s.expectModel(9, "Front\x1fBack")

	cards, err := s.client.TodayNewCards(s.ctx, 8, 5)

	s.Require().NoError(err)
	s.Require().Len(cards, 1)
	s.Assert().Equal("", cards[0].FrontText)
}

func (s *ClientSuite) TestTodayNewCards_SchemaMismatch() {
	s.available()
	cols := []string{"_id", "flds"}
	s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(provider.NewStaticCursor(cols), nil)

	_, err := s.client.TodayNewCards(s.ctx, 8, 5)

	s.Require().ErrorIs(err, apperrors.SchemaMismatch)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal(cols, appErr.Detail)
}

func (s *ClientSuite) TestTodayNewCards_LimitClamped() {
	s.available()
	rows := make([][]any, 0, 1005)
	for i := 1; i <= 1005; i++ {
		rows = append(rows, []any{int64(i), int64(9), "x", nil})
	}
	s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(noteCursor(rows...), nil)
	s.expectDeckName(8, "Deck")
	s.expectModel(9, "Front")

	cards, err := s.client.TodayNewCards(s.ctx, 8, 5000)

	s.Require().NoError(err)
	s.Assert().Len(cards, 1000)
}

func (s *ClientSuite) TestTodayNewCards_OrderByModification() {
	s.client = anki.New(s.resolver, s.packages, anki.WithNewCardOrder(anki.OrderByCardMod))
	s.available()
	s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, mock.Anything, mock.Anything,
		"(SELECT MIN(cards.mod) FROM cards WHERE cards.nid = notes.id AND did=8 AND type=0 AND queue=0) ASC, id ASC").
		Return(noteCursor(), nil)
	s.expectDeckName(8, "Deck")

	cards, err := s.client.TodayNewCards(s.ctx, 8, 5)

	s.Require().NoError(err)
	s.Assert().Empty(cards)
}

// --- Lookups ---

func (s *ClientSuite) TestModelFieldNames() {
	_, ok := s.client.ModelFieldNames(s.ctx, 0)
	s.Assert().False(ok)

	s.expectModel(5, "Front\x1f \x1fBack")
	names, ok := s.client.ModelFieldNames(s.ctx, 5)
	s.Require().True(ok)
	s.Assert().Equal([]string{"Front", "Back"}, names)

	// Served from cache: the mocked query was registered Once.
	names, ok = s.client.ModelFieldNames(s.ctx, 5)
	s.Require().True(ok)
	s.Assert().Equal([]string{"Front", "Back"}, names)

	s.expectModel(6, " \x1f")
	s.expectModel(6, "Text")
	_, ok = s.client.ModelFieldNames(s.ctx, 6)
	s.Assert().False(ok, "blank names are unavailable")
	names, ok = s.client.ModelFieldNames(s.ctx, 6)
	s.Require().True(ok, "unavailable results are not cached")
	s.Assert().Equal([]string{"Text"}, names)
}

func (s *ClientSuite) TestDeckName() {
	s.resolver.On("Query", mock.Anything, path("decks/2"), mock.Anything, "", []string(nil), "").
		Return(provider.NewStaticCursor([]string{"deck_name"}), nil).Once()
	_, ok := s.client.DeckName(s.ctx, 2)
	s.Assert().False(ok, "no row")

	s.expectDeckName(2, "Kanji")
	name, ok := s.client.DeckName(s.ctx, 2)
	s.Require().True(ok)
	s.Assert().Equal("Kanji", name)

	name, ok = s.client.DeckName(s.ctx, 2)
	s.Require().True(ok)
	s.Assert().Equal("Kanji", name)
	s.resolver.AssertNumberOfCalls(s.T(), "Query", 2)
}

// --- AppendToNoteField ---

func (s *ClientSuite) TestAppend_Validation() {
	tests := []struct {
		name string
		req  models.AppendRequest
	}{
		{name: "note", req: models.AppendRequest{NoteID: 0, ModelID: 1, TargetFieldKey: "Back", GeneratedText: "x"}},
		{name: "model", req: models.AppendRequest{NoteID: 1, ModelID: -1, TargetFieldKey: "Back", GeneratedText: "x"}},
		{name: "key", req: models.AppendRequest{NoteID: 1, ModelID: 1, TargetFieldKey: "  ", GeneratedText: "x"}},
		{name: "text", req: models.AppendRequest{NoteID: 1, ModelID: 1, TargetFieldKey: "Back", GeneratedText: " \n "}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.client.AppendToNoteField(s.ctx, tt.req)
			s.Assert().ErrorIs(err, apperrors.InvalidArgument)
		})
	}
	s.packages.AssertNumberOfCalls(s.T(), "IsInstalled", 0)
	s.resolver.AssertNumberOfCalls(s.T(), "Query", 0)
}

func (s *ClientSuite) TestAppend_FieldNotFound() {
	s.available()
	s.expectModel(7, "Front\x1fBack")

	_, err := s.client.AppendToNoteField(s.ctx, models.AppendRequest{
		NoteID: 1, ModelID: 7, TargetFieldKey: "Notes", GeneratedText: "x",
	})

	s.Require().ErrorIs(err, apperrors.FieldNotFound)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Assert().Equal([]string{"Front", "Back"}, appErr.Detail)
}

func (s *ClientSuite) TestAppend_ModelUnavailable() {
	s.available()
	s.resolver.On("Query", mock.Anything, path("models/7"), mock.Anything, "", []string(nil), "").Return(nil, nil)

	_, err := s.client.AppendToNoteField(s.ctx, models.AppendRequest{
		NoteID: 1, ModelID: 7, TargetFieldKey: "Back", GeneratedText: "x",
	})

	s.Assert().ErrorIs(err, apperrors.SchemaMismatch)
}

func (s *ClientSuite) TestAppend_BlankFieldGetsPayloadOnly() {
	s.available()
	s.expectModel(7, "front\x1fBack")
	s.expectNote(1, " \x1fold")
	s.resolver.On("Update", mock.Anything, path("notes/1"), provider.Values{"flds": "generated<br>1122\x1fold"}, "", []string(nil)).
		Return(1, nil)

	res, err := s.client.AppendToNoteField(s.ctx, models.AppendRequest{
		NoteID: 1, ModelID: 7, TargetFieldKey: " Front ", GeneratedText: "generated \n",
	})

	s.Require().NoError(err)
	s.Assert().Equal(models.AppendResult{Status: models.AppendUpdated, NewValue: "generated<br>1122"}, res)
}

func (s *ClientSuite) TestAppend_NonBlankFieldIsExtended() {
	s.available()
	s.expectModel(7, "Front\x1fBack")
	s.expectNote(1, "word\x1fmeaning  ")
	s.resolver.On("Update", mock.Anything, path("notes/1"), mock.Anything, "", []string(nil)).Return(1, nil)

	res, err := s.client.AppendToNoteField(s.ctx, models.AppendRequest{
		NoteID: 1, ModelID: 7, TargetFieldKey: "back", GeneratedText: "example", Marker: "#ai",
	})

	s.Require().NoError(err)
	s.Assert().Equal("meaning<br><br>example<br>#ai", res.NewValue)
}

func (s *ClientSuite) TestAppend_MarkerPresentSkipsWrite() {
	s.available()
	s.expectModel(7, "Front\x1fBack")
	s.expectNote(1, "word\x1fmeaning<br><br>example<br>1122")

	res, err := s.client.AppendToNoteField(s.ctx, models.AppendRequest{
		NoteID: 1, ModelID: 7, TargetFieldKey: "Back", GeneratedText: "example",
	})

	s.Require().NoError(err)
	s.Assert().Equal(models.AppendSkipped, res.Status)
	s.Assert().Equal(models.ReasonMarkerPresent, res.Reason)
	s.Assert().Equal("meaning<br><br>example<br>1122", res.NewValue)
	s.resolver.AssertNumberOfCalls(s.T(), "Update", 0)
}

func (s *ClientSuite) TestAppend_NoteReadFailures() {
	req := models.AppendRequest{NoteID: 1, ModelID: 7, TargetFieldKey: "Back", GeneratedText: "x"}

	s.Run("missing note", func() {
		s.SetupTest()
		s.available()
		s.expectModel(7, "Front\x1fBack")
		s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, "id=?", []string{"1"}, "").
			Return(provider.NewStaticCursor([]string{"_id", "flds"}), nil)
		_, err := s.client.AppendToNoteField(s.ctx, req)
		s.Assert().ErrorIs(err, apperrors.NoteNotFound)
	})
	s.Run("missing column", func() {
		s.SetupTest()
		s.available()
		s.expectModel(7, "Front\x1fBack")
		s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, "id=?", []string{"1"}, "").
			Return(provider.NewStaticCursor([]string{"_id"}, []any{int64(1)}), nil)
		_, err := s.client.AppendToNoteField(s.ctx, req)
		s.Assert().ErrorIs(err, apperrors.SchemaMismatch)
	})
	s.Run("null cursor", func() {
		s.SetupTest()
		s.available()
		s.expectModel(7, "Front\x1fBack")
		s.resolver.On("Query", mock.Anything, path("notes_v2"), mock.Anything, "id=?", []string{"1"}, "").Return(nil, nil)
		_, err := s.client.AppendToNoteField(s.ctx, req)
		s.Assert().ErrorIs(err, apperrors.NullCursor)
	})
	s.Run("field count disagreement", func() {
		s.SetupTest()
		s.available()
		s.expectModel(7, "Front\x1fBack")
		s.expectNote(1, "only-front")
		_, err := s.client.AppendToNoteField(s.ctx, req)
		s.Assert().ErrorIs(err, apperrors.SchemaMismatch)
	})
}

func (s *ClientSuite) prepareLadder() models.AppendRequest {
	s.available()
	s.expectModel(7, "Front\x1fBack")
	s.expectNote(1, "word\x1f")
	return models.AppendRequest{NoteID: 1, ModelID: 7, TargetFieldKey: "Back", GeneratedText: "x"}
}

func (s *ClientSuite) TestAppend_LadderFallsBackOnZeroRows() {
	req := s.prepareLadder()
	s.resolver.On("Update", mock.Anything, path("notes/1"), mock.Anything, "", []string(nil)).Return(0, nil).Once()
	s.resolver.On("Update", mock.Anything, path("notes"), mock.Anything, "id=?", []string{"1"}).Return(1, nil).Once()

	res, err := s.client.AppendToNoteField(s.ctx, req)

	s.Require().NoError(err)
	s.Assert().Equal(models.AppendUpdated, res.Status)
	s.resolver.AssertNumberOfCalls(s.T(), "Update", 2)
}

func (s *ClientSuite) TestAppend_LadderReachesRawEndpoint() {
	req := s.prepareLadder()
	s.resolver.On("Update", mock.Anything, path("notes/1"), mock.Anything, "", []string(nil)).
		Return(0, provider.ErrUnsupportedURI).Once()
	s.resolver.On("Update", mock.Anything, path("notes"), mock.Anything, "id=?", []string{"1"}).Return(0, nil).Once()
	s.resolver.On("Update", mock.Anything, path("notes_v2"), mock.Anything, "id=?", []string{"1"}).Return(1, nil).Once()

	res, err := s.client.AppendToNoteField(s.ctx, req)

	s.Require().NoError(err)
	s.Assert().Equal(models.AppendUpdated, res.Status)
	s.resolver.AssertNumberOfCalls(s.T(), "Update", 3)
}

func (s *ClientSuite) TestAppend_LadderExhausted() {
	req := s.prepareLadder()
	s.resolver.On("Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)

	_, err := s.client.AppendToNoteField(s.ctx, req)

	s.Assert().ErrorIs(err, apperrors.UpdateFailed)
	s.resolver.AssertNumberOfCalls(s.T(), "Update", 3)
}

func (s *ClientSuite) TestAppend_LadderPermissionAborts() {
	req := s.prepareLadder()
	s.resolver.On("Update", mock.Anything, path("notes/1"), mock.Anything, "", []string(nil)).Return(0, nil).Once()
	s.resolver.On("Update", mock.Anything, path("notes"), mock.Anything, "id=?", []string{"1"}).
		Return(0, provider.ErrPermissionDenied).Once()

	_, err := s.client.AppendToNoteField(s.ctx, req)

	s.Assert().ErrorIs(err, apperrors.PermissionDenied)
	s.resolver.AssertNumberOfCalls(s.T(), "Update", 2)
}

func (s *ClientSuite) TestAppend_LadderOtherErrorAborts() {
	req := s.prepareLadder()
	s.resolver.On("Update", mock.Anything, path("notes/1"), mock.Anything, "", []string(nil)).
		Return(0, errors.New("database is locked")).Once()

	_, err := s.client.AppendToNoteField(s.ctx, req)

	s.Assert().ErrorIs(err, apperrors.UpdateFailed)
	s.resolver.AssertNumberOfCalls(s.T(), "Update", 1)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}
