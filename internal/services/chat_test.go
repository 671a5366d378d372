package services

import (
	"context"
	"net/http"
	"testing"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatService(
	t *testing.T,
	stub *stubAIProvider,
	handler http.Handler,
) (*ChatService, *fakeChatRepo) {
	t.Helper()

	tmdb, _ := newTestTMDBService(t, handler)
	repos := testRepos()
	chatRepo := repos.Chat.(*fakeChatRepo)

	service := &ChatService{
		db:    database.DB{},
		repos: repos,
		tmdb:  tmdb,
		ai:    NewAIGatewayService(stub),
		log:   logger.New("ChatService"),
	}
	return service, chatRepo
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
}

func TestSendMessage_NewSessionGetsTitleAndTranscript(t *testing.T) {
	stub := newStubAIProvider()
	stub.chat = mockChatResponse("teste")
	stub.chatTitle = "Dicas de Suspense"

	service, chatRepo := newTestChatService(t, stub, notFoundHandler())

	session, err := service.SendMessage(context.Background(), nil, "Me indica um suspense?")

	require.NoError(t, err)
	assert.Equal(t, "Dicas de Suspense", session.Title)
	assert.Equal(t, 1, chatRepo.creates)
	assert.Zero(t, chatRepo.updates)

	messages, err := session.DecodeMessages()
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, ChatRoleUser, messages[0].Role)
	assert.Equal(t, "Me indica um suspense?", messages[0].Text)
	assert.Equal(t, ChatRoleModel, messages[1].Role)
	assert.NotEmpty(t, messages[1].Text)
	assert.Equal(t, 1, stub.calls["ChatTurn"])
	assert.Equal(t, 1, stub.calls["ChatTitle"])
}

func TestSendMessage_ExistingSessionAppendsWithoutRetitling(t *testing.T) {
	stub := newStubAIProvider()
	stub.chat = mockChatResponse("teste")

	service, chatRepo := newTestChatService(t, stub, notFoundHandler())

	existing := &ChatSession{Title: "Conversa Antiga"}
	require.NoError(t, existing.EncodeMessages([]ChatMessage{
		{Role: ChatRoleUser, Text: "Primeira pergunta"},
		{Role: ChatRoleModel, Text: "Primeira resposta"},
	}))
	require.NoError(t, chatRepo.Create(context.Background(), nil, existing))
	chatRepo.creates = 0

	session, err := service.SendMessage(context.Background(), &existing.ID, "Segunda pergunta")

	require.NoError(t, err)
	assert.Equal(t, "Conversa Antiga", session.Title)
	assert.Zero(t, chatRepo.creates)
	assert.Equal(t, 1, chatRepo.updates)
	assert.Zero(t, stub.calls["ChatTitle"])

	messages, err := session.DecodeMessages()
	require.NoError(t, err)
	assert.Len(t, messages, 4)
	assert.Equal(t, "Segunda pergunta", messages[2].Text)
}

func TestSendMessage_RecommendationBranchGainsCatalogIdentity(t *testing.T) {
	stub := newStubAIProvider()
	response := &AIChatResponse{Type: ChatResponseRecommendation}
	response.Data.Recommendation = &AIRecommendation{
		MediaKind: MediaKindMovie,
		Title:     "Os Suspeitos",
		Year:      2013,
		Analysis:  "Tenso do jeito que você gosta.",
		Probabilities: Probabilities{
			Loved: 75, Liked: 20, Neutral: 4, Disliked: 1,
		},
	}
	stub.chat = response
	stub.chatTitle = "Sugestão de Suspense"

	service, _ := newTestChatService(t, stub,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/search/movie" {
				writeJSON(t, w, map[string]any{
					"results": []map[string]any{
						{"id": 146233, "title": "Os Suspeitos", "poster_path": "/suspeitos.jpg", "release_date": "2013-09-18"},
					},
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))

	session, err := service.SendMessage(context.Background(), nil, "Duelo: Os Suspeitos ou Seven?")

	require.NoError(t, err)
	messages, err := session.DecodeMessages()
	require.NoError(t, err)
	require.Len(t, messages, 2)

	answer := messages[1]
	require.NotNil(t, answer.Recommendation)
	assert.Equal(t, 146233, answer.Recommendation.ID)
	assert.Equal(t, TMDB_POSTER_BASE_URL+"/suspeitos.jpg", answer.Recommendation.PosterURL)
	assert.Equal(t, "Tenso do jeito que você gosta.", answer.Text)
}

func TestSendMessage_ListBranchResolvesCanonicalTitles(t *testing.T) {
	stub := newStubAIProvider()
	response := &AIChatResponse{Type: ChatResponseList}
	response.Data.List = []AIChatListItem{
		{ID: 9552, MediaKind: MediaKindMovie, Title: "exorcista"},
		{ID: 0, MediaKind: MediaKindMovie, Title: "Sem ID"},
	}
	stub.chat = response
	stub.chatTitle = "Itens do Desafio"

	service, _ := newTestChatService(t, stub,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/movie/9552" {
				writeJSON(t, w, map[string]any{
					"id": 9552, "title": "O Exorcista", "release_date": "1973-12-26",
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))

	session, err := service.SendMessage(context.Background(), nil, "Quais os filmes do desafio?")

	require.NoError(t, err)
	messages, err := session.DecodeMessages()
	require.NoError(t, err)
	require.Len(t, messages, 2)

	list := messages[1].List
	require.Len(t, list, 2)
	assert.Equal(t, "O Exorcista", list[0].Title)
	assert.Equal(t, "Sem ID", list[1].Title)
}
