package main

import (
	"context"
	"fmt"
	"time"

	"github.com/berrymaze/game-backend/internal/config"
	"github.com/berrymaze/game-backend/internal/database"
	"github.com/berrymaze/game-backend/internal/logger"
)

type card struct {
	ID          int
	Name        string
	Category    string
	Description string
	Image       string
}

type question struct {
	Description string
	Options     string
	Difficulty  int
	Category    string
	Answer      string
}

var cards = []card{
	{1, "Sagesse d'Athéna", "Quiz", "Répondez à trois questions pour gagner des Faveurs Divines.", "cards/quiz_athena.png"},
	{2, "Énigme du Sphinx", "Quiz", "Le Sphinx vous met à l'épreuve : trois questions, un seul chemin.", "cards/quiz_sphinx.png"},
	{3, "Chant des Muses", "Quiz", "Les Muses chantent trois questions pour vous.", "cards/quiz_muses.png"},
	{4, "Savoir de Prométhée", "Quiz", "Le feu du savoir éclaire trois questions.", "cards/quiz_promethee.png"},
	{5, "Épreuve d'Héraclès", "Challenge", "Relevez un défi physique devant les autres joueurs.", "cards/challenge_heracles.png"},
	{6, "Course d'Hermès", "Challenge", "Un défi de vitesse jugé par vos adversaires.", "cards/challenge_hermes.png"},
	{7, "Forge d'Héphaïstos", "Challenge", "Un défi d'adresse jugé par vos adversaires.", "cards/challenge_hephaistos.png"},
	{8, "Défi d'Arès", "Challenge", "Un défi de courage jugé par vos adversaires.", "cards/challenge_ares.png"},
	{9, "Sablier d'Héra", "Object", "Rejouez immédiatement après votre tour.", "cards/object_sablier.png"},
	{10, "Oracle de Delphes", "Object", "Le prochain joueur ne pioche que des cartes Quiz.", "cards/object_oracle.png"},
	{11, "Bourse d'Hermès", "Object", "Gagnez immédiatement 2 Faveurs Divines.", "cards/object_bourse.png"},
	{12, "Main du Destin", "Object", "Le prochain joueur ne pioche que des cartes Défi.", "cards/object_destin.png"},
}

var questions = []question{
	{"Qui est le roi des dieux de l'Olympe ?", `["Zeus","Poséidon","Hadès","Apollon"]`, 1, "Mythologie", "Zeus"},
	{"Quel héros a accompli douze travaux ?", `["Héraclès","Thésée","Persée","Jason"]`, 1, "Mythologie", "Héraclès"},
	{"Qui est la déesse de la sagesse ?", `["Athéna","Héra","Aphrodite","Artémis"]`, 1, "Mythologie", "Athéna"},
	{"Quel monstre a une chevelure de serpents ?", `["Méduse","Chimère","Hydre","Cerbère"]`, 2, "Mythologie", "Méduse"},
	{"Qui a volé le feu aux dieux ?", `["Prométhée","Épiméthée","Atlas","Cronos"]`, 2, "Mythologie", "Prométhée"},
	{"Combien de têtes possède l'Hydre de Lerne à l'origine ?", `["9","3","7","12"]`, 3, "Mythologie", "9"},
	{"Quel fleuve les morts doivent-ils traverser ?", `["Le Styx","Le Léthé","L'Achéron","Le Cocyte"]`, 3, "Mythologie", "Le Styx"},
	{"Quelle est la capitale de la Grèce ?", `["Athènes","Sparte","Thèbes","Corinthe"]`, 1, "Géographie", "Athènes"},
	{"Sur quel mont siègent les dieux grecs ?", `["L'Olympe","Le Parnasse","L'Ida","Le Pélion"]`, 1, "Géographie", "L'Olympe"},
	{"Dans quelle mer se trouve la Crète ?", `["Méditerranée","Égée","Ionienne","Noire"]`, 2, "Géographie", "Méditerranée"},
	{"Où se trouvait l'oracle d'Apollon ?", `["Delphes","Olympie","Dodone","Délos"]`, 2, "Géographie", "Delphes"},
	{"Quelle île est associée au Minotaure ?", `["La Crète","Rhodes","Ithaque","Lesbos"]`, 3, "Géographie", "La Crète"},
	{"En quelle année eurent lieu les premiers Jeux olympiques antiques ?", `["776 av. J.-C.","490 av. J.-C.","323 av. J.-C.","146 av. J.-C."]`, 3, "Histoire", "776 av. J.-C."},
	{"Qui a mené les Grecs lors de la guerre de Troie ?", `["Agamemnon","Achille","Ulysse","Ménélas"]`, 2, "Histoire", "Agamemnon"},
	{"Quelle cité est célèbre pour ses guerriers austères ?", `["Sparte","Athènes","Corinthe","Argos"]`, 1, "Histoire", "Sparte"},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	fmt.Println("=== Seeding card catalog ===")
	for _, c := range cards {
		_, err := pool.Exec(ctx,
			`INSERT INTO cards (card_id, card_name, card_category, card_description, card_image)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (card_id) DO UPDATE
			 SET card_name = EXCLUDED.card_name,
			     card_category = EXCLUDED.card_category,
			     card_description = EXCLUDED.card_description,
			     card_image = EXCLUDED.card_image`,
			c.ID, c.Name, c.Category, c.Description, c.Image,
		)
		if err != nil {
			log.Fatal().Err(err).Str("card", c.Name).Msg("Failed to seed card")
		}
	}
	fmt.Printf("Seeded %d cards\n", len(cards))

	fmt.Println("=== Seeding question bank ===")
	seeded := 0
	for _, q := range questions {
		tag, err := pool.Exec(ctx,
			`INSERT INTO questions (question_description, question_options, question_difficulty, question_category, question_answer)
			 SELECT $1, $2::jsonb, $3, $4, $5
			 WHERE NOT EXISTS (SELECT 1 FROM questions WHERE question_description = $1)`,
			q.Description, q.Options, q.Difficulty, q.Category, q.Answer,
		)
		if err != nil {
			log.Fatal().Err(err).Str("question", q.Description).Msg("Failed to seed question")
		}
		seeded += int(tag.RowsAffected())
	}
	fmt.Printf("Seeded %d new questions\n", seeded)
}
