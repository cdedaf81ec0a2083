package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/storage"

	"github.com/google/uuid"
)

// Seed inserts the starter quizzes with fresh ids, randomized play counts,
// and staggered creation times, so a new deployment has a believable feed.
func Seed(ctx context.Context, quizzes storage.QuizStore) error {
	now := time.Now().UnixMilli()
	for _, quiz := range SeedQuizzes() {
		quiz.ID = uuid.NewString()
		quiz.Plays = rand.Intn(5000) + 100
		quiz.CreatedAt = now - rand.Int63n(1_000_000_000)

		if err := quizzes.Create(ctx, &quiz); err != nil {
			return fmt.Errorf("seed quiz %q: %w", quiz.Title, err)
		}
	}
	slog.Info("database seeded", "quizzes", len(SeedQuizzes()))
	return nil
}

// SeedQuizzes returns the built-in personality quizzes. Ids and counters are
// assigned at insert time.
func SeedQuizzes() []models.Quiz {
	return []models.Quiz{
		{
			Title:       "What Type of Sandwich Are You?",
			Description: "Are you a classic Club or a spicy Panini? Find out now!",
			Author:      "PopBot",
			Outcomes: []models.Outcome{
				{ID: "o1", Title: "The Spicy Italian", Description: "You are bold, flavorful, and a little bit chaotic.", Image: "🌶️", ColorClass: "bg-neo-coral"},
				{ID: "o2", Title: "The Classic Club", Description: "Reliable, layered, and everyone likes you.", Image: "🥪", ColorClass: "bg-neo-lemon"},
				{ID: "o3", Title: "The Grilled Cheese", Description: "Warm, comforting, and best when under pressure.", Image: "🧀", ColorClass: "bg-neo-mint"},
				{ID: "o4", Title: "The PB&J", Description: "Sweet, simple, and young at heart.", Image: "🥜", ColorClass: "bg-neo-periwinkle"},
			},
			Questions: []models.Question{
				{ID: "q1", Text: "It's Friday night. What's the move?", Answers: []models.Answer{
					{ID: "a1", Text: "Salsa dancing until 2am", OutcomeID: "o1"},
					{ID: "a2", Text: "Dinner party with close friends", OutcomeID: "o2"},
					{ID: "a3", Text: "Netflix and actual chill", OutcomeID: "o3"},
					{ID: "a4", Text: "Video games and snacks", OutcomeID: "o4"},
				}},
				{ID: "q2", Text: "Pick a vacation destination", Answers: []models.Answer{
					{ID: "a1", Text: "Mexico City", OutcomeID: "o1"},
					{ID: "a2", Text: "London", OutcomeID: "o2"},
					{ID: "a3", Text: "A cabin in the woods", OutcomeID: "o3"},
					{ID: "a4", Text: "Disney World", OutcomeID: "o4"},
				}},
				{ID: "q3", Text: "What's your toxic trait?", Answers: []models.Answer{
					{ID: "a1", Text: "I speak before I think", OutcomeID: "o1"},
					{ID: "a2", Text: "I'm a perfectionist", OutcomeID: "o2"},
					{ID: "a3", Text: "I cancel plans last minute", OutcomeID: "o3"},
					{ID: "a4", Text: "I only eat chicken nuggets", OutcomeID: "o4"},
				}},
			},
		},
		{
			Title:       "Which 'The Office' Character Matches Your Energy?",
			Description: "Are you the World's Best Boss or just here for pretzel day? Find out now.",
			Author:      "DunderMifflinAdmin",
			Outcomes: []models.Outcome{
				{ID: "o1", Title: "Michael Scott", Description: "Chaotic, needy, but ultimately full of love. You want people to be afraid of how much they love you.", Image: "👔", ColorClass: "bg-neo-blue"},
				{ID: "o2", Title: "Dwight Schrute", Description: "Intense, loyal, and prepared for the apocalypse. You are the Assistant (to the) Regional Manager.", Image: "👓", ColorClass: "bg-neo-lemon"},
				{ID: "o3", Title: "Kelly Kapoor", Description: "You have a lot of questions. Number one: how dare you?", Image: "💅", ColorClass: "bg-neo-coral"},
				{ID: "o4", Title: "Stanley Hudson", Description: "You are done. You have been done since 9am. Did I stutter?", Image: "🥨", ColorClass: "bg-neo-mint"},
			},
			Questions: []models.Question{
				{ID: "q1", Text: "It's 5:00 PM on Friday. What are you doing?", Answers: []models.Answer{
					{ID: "a1", Text: "Inviting everyone to my condo for a party!", OutcomeID: "o1"},
					{ID: "a2", Text: "Checking the perimeter security one last time.", OutcomeID: "o2"},
					{ID: "a3", Text: "Gossiping in the annex.", OutcomeID: "o3"},
					{ID: "a4", Text: "I left at 4:58 PM.", OutcomeID: "o4"},
				}},
				{ID: "q2", Text: "What is your management style?", Answers: []models.Answer{
					{ID: "a1", Text: "Somehow I Manage.", OutcomeID: "o1"},
					{ID: "a2", Text: "Dictatorship.", OutcomeID: "o2"},
					{ID: "a3", Text: "Branding and personal image.", OutcomeID: "o3"},
					{ID: "a4", Text: "Do not speak to me.", OutcomeID: "o4"},
				}},
				{ID: "q3", Text: "Pick a survival item.", Answers: []models.Answer{
					{ID: "a1", Text: "A magic set.", OutcomeID: "o1"},
					{ID: "a2", Text: "Nun-chucks.", OutcomeID: "o2"},
					{ID: "a3", Text: "My phone.", OutcomeID: "o3"},
					{ID: "a4", Text: "Crossword puzzles.", OutcomeID: "o4"},
				}},
			},
		},
		{
			Title:       "What is Your Actual Gen Z Aesthetic?",
			Description: "Forget your zodiac sign. Are you Cottagecore, Dark Academia, or Y2K Chaos?",
			Author:      "VibeChecker",
			Outcomes: []models.Outcome{
				{ID: "o1", Title: "Dark Academia", Description: "Tweed blazers, rainy days, and secret societies. You romanticize studying.", Image: "🕯️", ColorClass: "bg-neo-black text-white"},
				{ID: "o2", Title: "Cottagecore", Description: "Baking bread, frolicking in meadows, and rejecting modernity.", Image: "🍄", ColorClass: "bg-neo-mint"},
				{ID: "o3", Title: "Y2K Cyber", Description: "Chrome, neon, fast internet, and faster sunglasses. You are living in 2003.", Image: "💿", ColorClass: "bg-neo-periwinkle"},
				{ID: "o4", Title: "Goblin Mode", Description: "Comfort over everything. Snacks in bed. Feral energy.", Image: "👹", ColorClass: "bg-neo-coral"},
			},
			Questions: []models.Question{
				{ID: "q1", Text: "Pick a weekend activity.", Answers: []models.Answer{
					{ID: "a1", Text: "Reading poetry in a cemetery.", OutcomeID: "o1"},
					{ID: "a2", Text: "Gardening and jam making.", OutcomeID: "o2"},
					{ID: "a3", Text: "Editing TikToks.", OutcomeID: "o3"},
					{ID: "a4", Text: "Rotting in bed.", OutcomeID: "o4"},
				}},
				{ID: "q2", Text: "Choose a beverage.", Answers: []models.Answer{
					{ID: "a1", Text: "Black coffee.", OutcomeID: "o1"},
					{ID: "a2", Text: "Herbal tea with honey.", OutcomeID: "o2"},
					{ID: "a3", Text: "Energy drink.", OutcomeID: "o3"},
					{ID: "a4", Text: "Whatever is in the fridge.", OutcomeID: "o4"},
				}},
				{ID: "q3", Text: "Pick a shoe.", Answers: []models.Answer{
					{ID: "a1", Text: "Loafers.", OutcomeID: "o1"},
					{ID: "a2", Text: "Bare feet.", OutcomeID: "o2"},
					{ID: "a3", Text: "Platform boots.", OutcomeID: "o3"},
					{ID: "a4", Text: "Crocs.", OutcomeID: "o4"},
				}},
			},
		},
	}
}
