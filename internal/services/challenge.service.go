package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cinegenio/internal/database"
	. "cinegenio/internal/models"
	"cinegenio/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

var ErrStepOutOfRange = errors.New("challenge step index out of range")

var ptBRMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// ChallengeService generates and mutates the week-keyed themed challenge.
// Generation is get-or-create: the week id is the primary key, so a second
// call within the same week returns the stored challenge without an AI
// call.
type ChallengeService struct {
	db    database.DB
	repos repositories.Repository
	tmdb  *TMDBService
	ai    *AIGatewayService
	now   func() time.Time
	log   logger.Logger
}

func NewChallengeService(
	db database.DB,
	repos repositories.Repository,
	tmdb *TMDBService,
	ai *AIGatewayService,
) *ChallengeService {
	return &ChallengeService{
		db:    db,
		repos: repos,
		tmdb:  tmdb,
		ai:    ai,
		now:   time.Now,
		log:   logger.New("ChallengeService"),
	}
}

// WeekID formats the week key as "{year}-{weekNumber}", the week number
// counted from day-of-year and January 1st's weekday with Sunday as 7.
func WeekID(now time.Time) string {
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	day := int(startOfYear.Weekday())
	if day == 0 {
		day = 7
	}
	elapsed := now.Sub(startOfYear).Hours() / 24
	weekNumber := int(math.Ceil((elapsed + float64(day)) / 7))
	return fmt.Sprintf("%d-%d", now.Year(), weekNumber)
}

// GetOrCreate returns this week's challenge, generating it on first
// access. Concurrent first calls race on Create; the loser re-reads the
// winner's row.
func (s *ChallengeService) GetOrCreate(ctx context.Context) (*Challenge, error) {
	log := s.log.Function("GetOrCreate")

	weekID := WeekID(s.now())
	existing, err := s.repos.Challenge.GetByWeekID(ctx, s.db.SQL, weekID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	log.Info("generating new weekly challenge", "weekID", weekID)
	challenge, err := s.generate(ctx, weekID)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Challenge.Create(ctx, s.db.SQL, challenge); err != nil {
		if stored, readErr := s.repos.Challenge.GetByWeekID(ctx, s.db.SQL, weekID); readErr == nil {
			return stored, nil
		}
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) generate(ctx context.Context, weekID string) (*Challenge, error) {
	log := s.log.Function("generate")

	watched, err := s.repos.Watched.GetAll(ctx, s.db.SQL)
	if err != nil {
		return nil, err
	}
	profile := BuildTasteProfile(watched)
	formatted := FormatTasteProfile(profile)
	allTitles := strings.Join(profile.AllTitles(), ", ")

	now := s.now()
	currentDate := fmt.Sprintf("%d de %s", now.Day(), ptBRMonths[now.Month()-1])

	prompt := fmt.Sprintf(`Hoje é %s. Você é o "CineGênio Pessoal". Sua tarefa é criar um "Desafio Semanal" criativo e temático para um usuário.

**TÍTULOS JÁ ASSISTIDOS (NUNCA SUGERIR):**
%s

**REGRAS:**
1. **Tema Criativo:** Crie um nome de desafio ("challengeType") instigante, envolvente e memorável (ex: "Maratona do Mestre do Suspense", "Complexidade Cinematográfica", "Viagem aos Anos 80", "Explorando o Cinema Oriental").
2. **Introdução Divertida:** O campo "reason" deve ser uma introdução curta, divertida e envolvente, no estilo narrativo.
3. **Quantidade de Filmes:** O desafio pode ser assistir a apenas 1 título especial ou uma lista de 2 a 7 títulos.
4. **Conexão Pessoal:** O desafio deve se conectar com os gostos do usuário, mas também apresentar algo novo, surpreendente e fora da zona de conforto dele.
5. **Formato Final:** Responda apenas com um objeto JSON que contenha "challengeType", "reason" e os títulos escolhidos.

**PERFIL DO USUÁRIO:**
%s

**Sua Tarefa:**
Gere UM desafio e responda APENAS com o objeto JSON.`, currentDate, allTitles, formatted)

	idea, err := s.ai.WeeklyChallenge(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// The challenge schema asks the AI for catalog ids directly; each step
	// is stamped with the canonical title, year and poster from the detail
	// record.
	steps := make([]ChallengeStep, 0, len(idea.Steps))
	for _, aiStep := range idea.Steps {
		details, err := s.tmdb.GetDetails(ctx, aiStep.TMDBID, aiStep.MediaKind)
		if err != nil {
			return nil, log.Err("failed to enrich challenge step", err,
				"tmdbId", aiStep.TMDBID, "title", aiStep.Title)
		}

		step := ChallengeStep{
			Title:     details.TitleWithYear(),
			TMDBID:    aiStep.TMDBID,
			MediaKind: aiStep.MediaKind,
			Completed: false,
		}
		if poster := PosterURL(details.PosterPath); poster != nil {
			step.PosterURL = *poster
		}
		steps = append(steps, step)
	}

	challenge := &Challenge{
		WeekID: weekID,
		Theme:  idea.Theme,
		Reason: idea.Reason,
		Status: ChallengeActive,
	}
	if err := challenge.EncodeSteps(steps); err != nil {
		return nil, log.Err("failed to encode challenge steps", err)
	}
	return challenge, nil
}

// ToggleStep flips one step's completion and recomputes status: completed
// when every step is done; lost when the challenge's week has passed and
// it still is not complete; active otherwise. Lost is terminal for an
// incomplete past-week challenge.
func (s *ChallengeService) ToggleStep(
	ctx context.Context,
	weekID string,
	stepIndex int,
) (*Challenge, error) {
	log := s.log.Function("ToggleStep")

	challenge, err := s.repos.Challenge.GetByWeekID(ctx, s.db.SQL, weekID)
	if err != nil {
		return nil, err
	}

	steps, err := challenge.DecodeSteps()
	if err != nil {
		return nil, log.Err("failed to decode challenge steps", err, "weekID", weekID)
	}
	if stepIndex < 0 || stepIndex >= len(steps) {
		return nil, ErrStepOutOfRange
	}

	steps[stepIndex].Completed = !steps[stepIndex].Completed

	allCompleted := true
	for _, step := range steps {
		if !step.Completed {
			allCompleted = false
			break
		}
	}

	switch {
	case allCompleted:
		challenge.Status = ChallengeCompleted
	case weekID != WeekID(s.now()):
		challenge.Status = ChallengeLost
	default:
		challenge.Status = ChallengeActive
	}

	if err := challenge.EncodeSteps(steps); err != nil {
		return nil, log.Err("failed to encode challenge steps", err, "weekID", weekID)
	}
	if err := s.repos.Challenge.Update(ctx, s.db.SQL, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// History lists every stored challenge, newest week first.
func (s *ChallengeService) History(ctx context.Context) ([]Challenge, error) {
	return s.repos.Challenge.GetHistory(ctx, s.db.SQL)
}
