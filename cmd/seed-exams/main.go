package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/scoorly/scoorly-backend/internal/config"
	"github.com/scoorly/scoorly-backend/internal/database"
	"github.com/scoorly/scoorly-backend/internal/logger"
)

type seedQuestion struct {
	Text          string
	Choices       map[string]string
	CorrectAnswer string
	Explanation   string
}

type seedExam struct {
	ID          string
	Name        string
	Description string
	Questions   []seedQuestion
	Flashcards  [][2]string // front, back
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	exams := []seedExam{
		{
			ID:          "NREMT",
			Name:        "NREMT Practice Exam",
			Description: "Emergency medical technician certification prep",
			Questions: []seedQuestion{
				{
					Text:          "What is the normal adult resting respiratory rate?",
					Choices:       map[string]string{"a": "6-10 breaths/min", "b": "12-20 breaths/min", "c": "24-32 breaths/min", "d": "36-40 breaths/min"},
					CorrectAnswer: "b",
					Explanation:   "Adults at rest typically breathe 12 to 20 times per minute.",
				},
				{
					Text:          "Which position is indicated for a patient in shock?",
					Choices:       map[string]string{"a": "Prone", "b": "Trendelenburg", "c": "Supine", "d": "Fowler's"},
					CorrectAnswer: "c",
					Explanation:   "Current guidance favors supine positioning over Trendelenburg.",
				},
				{
					Text:          "What does AVPU stand for?",
					Choices:       map[string]string{"a": "Alert, Verbal, Pain, Unresponsive", "b": "Airway, Ventilation, Pulse, Urgency", "c": "Assess, Verify, Plan, Update", "d": "Alert, Vitals, Pressure, Urgency"},
					CorrectAnswer: "a",
					Explanation:   "AVPU is the rapid consciousness scale: Alert, Verbal, Pain, Unresponsive.",
				},
			},
			Flashcards: [][2]string{
				{"AVPU", "Alert, Verbal, Pain, Unresponsive"},
				{"Normal adult respiratory rate", "12-20 breaths per minute"},
			},
		},
		{
			ID:          "CDL",
			Name:        "CDL Knowledge Test",
			Description: "Commercial driver's license general knowledge prep",
			Questions: []seedQuestion{
				{
					Text:          "When should you downshift before a curve?",
					Choices:       map[string]string{"a": "In the curve", "b": "Before entering the curve", "c": "After the curve", "d": "Never"},
					CorrectAnswer: "b",
					Explanation:   "Downshift before entering so both hands stay on the wheel in the curve.",
				},
				{
					Text:          "What is the minimum tread depth for front tires?",
					Choices:       map[string]string{"a": "2/32 inch", "b": "4/32 inch", "c": "6/32 inch", "d": "8/32 inch"},
					CorrectAnswer: "b",
					Explanation:   "Front (steering) tires require at least 4/32 inch of tread depth.",
				},
			},
			Flashcards: [][2]string{
				{"Front tire minimum tread", "4/32 inch"},
			},
		},
	}

	fmt.Printf("=== Seeding %d Exams ===\n", len(exams))

	for _, e := range exams {
		var examID string
		err := pool.QueryRow(ctx, "SELECT id FROM exams WHERE id = $1", e.ID).Scan(&examID)
		if err == nil {
			fmt.Printf("Exam %s already exists, skipping\n", e.ID)
			continue
		}
		if err != pgx.ErrNoRows {
			log.Fatal().Err(err).Msg("Failed to check existing exam")
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO exams (id, name, description, question_count, published) VALUES ($1, $2, $3, $4, TRUE)`,
			e.ID, e.Name, e.Description, len(e.Questions),
		)
		if err != nil {
			log.Fatal().Err(err).Str("exam_id", e.ID).Msg("Failed to insert exam")
		}

		for i, q := range e.Questions {
			choices, err := json.Marshal(q.Choices)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to marshal choices")
			}
			_, err = pool.Exec(ctx,
				`INSERT INTO questions (exam_id, question_text, choices, correct_answer, explanation, order_num)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				e.ID, q.Text, choices, q.CorrectAnswer, q.Explanation, i+1,
			)
			if err != nil {
				log.Fatal().Err(err).Str("exam_id", e.ID).Msg("Failed to insert question")
			}
		}

		for i, fc := range e.Flashcards {
			_, err = pool.Exec(ctx,
				`INSERT INTO flashcards (exam_id, front, back, order_num) VALUES ($1, $2, $3, $4)`,
				e.ID, fc[0], fc[1], i+1,
			)
			if err != nil {
				log.Fatal().Err(err).Str("exam_id", e.ID).Msg("Failed to insert flashcard")
			}
		}

		fmt.Printf("Seeded exam %s with %d questions and %d flashcards\n", e.ID, len(e.Questions), len(e.Flashcards))
	}

	fmt.Println("Done")
}
