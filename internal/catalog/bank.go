package catalog

import "smarttest-quiz-service/internal/domain"

// DefaultSubject is served when a subject has no bank of its own.
const DefaultSubject = "matematica"

var defaultSubjects = []Subject{
	{Key: "matematica", Label: "mathematics"},
	{Key: "portugues", Label: "portuguese language"},
	{Key: "historia", Label: "history"},
	{Key: "geografia", Label: "geography"},
	{Key: "biologia", Label: "biology"},
	{Key: "quimica", Label: "chemistry"},
	{Key: "fisica", Label: "physics"},
	{Key: "ingles", Label: "english language"},
}

func q(d domain.Difficulty, correct int, prompt string, options ...string) domain.QuestionRecord {
	return domain.QuestionRecord{Prompt: prompt, Options: options, CorrectIndex: correct, Difficulty: d}
}

const (
	easy   = domain.DifficultyEasy
	medium = domain.DifficultyMedium
	hard   = domain.DifficultyHard
)

func defaultBanks() map[string][]domain.QuestionRecord {
	return map[string][]domain.QuestionRecord{
		"matematica": {
			q(easy, 1, "What is 7 x 8?", "54", "56", "58", "64"),
			q(easy, 2, "What is 15% of 200?", "15", "20", "30", "35"),
			q(medium, 0, "What is the derivative of x^2?", "2x", "x", "x^3/3", "2"),
			q(medium, 3, "Solve for x: 3x + 5 = 20.", "3", "4", "6", "5"),
			q(medium, 1, "What is the area of a circle with radius 3?", "6π", "9π", "3π", "12π"),
			q(hard, 2, "What is the sum of the interior angles of a hexagon?", "540°", "900°", "720°", "360°"),
			q(hard, 0, "What is log base 2 of 64?", "6", "8", "5", "32"),
		},
		"portugues": {
			q(easy, 0, "Which word class names people, places and things?", "Noun", "Verb", "Adverb", "Preposition"),
			q(easy, 2, "Which of these words is a verb?", "Casa", "Bonito", "Correr", "Rapidamente"),
			q(medium, 1, "What is the subject in \"Os alunos estudaram muito\"?", "muito", "Os alunos", "estudaram", "Os"),
			q(medium, 3, "Which figure of speech compares two things using \"como\"?", "Metonymy", "Hyperbole", "Irony", "Simile"),
			q(hard, 0, "In \"Assisti ao filme\", the verb \"assistir\" requires which preposition?", "a", "de", "em", "com"),
			q(hard, 2, "Who wrote \"Dom Casmurro\"?", "José de Alencar", "Clarice Lispector", "Machado de Assis", "Jorge Amado"),
		},
		"historia": {
			q(easy, 1, "In which year did Brazil declare independence?", "1808", "1822", "1889", "1500"),
			q(easy, 3, "Which civilization built the pyramids of Giza?", "Roman", "Greek", "Mayan", "Egyptian"),
			q(medium, 0, "Which event is traditionally used to mark the start of the French Revolution?", "Storming of the Bastille", "Battle of Waterloo", "Congress of Vienna", "Treaty of Versailles"),
			q(medium, 2, "In which year did World War II end?", "1939", "1918", "1945", "1950"),
			q(hard, 1, "Which law abolished slavery in Brazil in 1888?", "Lei do Ventre Livre", "Lei Áurea", "Lei Eusébio de Queirós", "Lei dos Sexagenários"),
			q(hard, 3, "Who was the first emperor of Rome?", "Julius Caesar", "Nero", "Constantine", "Augustus"),
		},
		"geografia": {
			q(easy, 2, "What is the capital of Brazil?", "Rio de Janeiro", "São Paulo", "Brasília", "Salvador"),
			q(easy, 0, "Which is the largest ocean on Earth?", "Pacific", "Atlantic", "Indian", "Arctic"),
			q(medium, 1, "Which biome covers most of the Brazilian Amazon basin?", "Cerrado", "Tropical rainforest", "Caatinga", "Pampa"),
			q(medium, 3, "Which line divides the Earth into northern and southern hemispheres?", "Prime meridian", "Tropic of Cancer", "Tropic of Capricorn", "Equator"),
			q(hard, 0, "Which river carries the largest volume of water in the world?", "Amazon", "Nile", "Yangtze", "Mississippi"),
			q(hard, 2, "Which tectonic setting forms the Andes mountains?", "Divergent boundary", "Hotspot", "Subduction zone", "Transform fault"),
		},
		"biologia": {
			q(easy, 1, "Which organelle is known as the powerhouse of the cell?", "Nucleus", "Mitochondrion", "Ribosome", "Golgi apparatus"),
			q(easy, 3, "Which gas do plants absorb for photosynthesis?", "Oxygen", "Nitrogen", "Hydrogen", "Carbon dioxide"),
			q(medium, 0, "What molecule carries genetic information in most living organisms?", "DNA", "ATP", "Glucose", "Cellulose"),
			q(medium, 2, "How many chromosomes does a typical human somatic cell have?", "23", "44", "46", "48"),
			q(hard, 1, "In which phase of mitosis do sister chromatids separate?", "Prophase", "Anaphase", "Metaphase", "Telophase"),
			q(hard, 3, "Which blood type is the universal red-cell donor?", "AB+", "A-", "B+", "O-"),
		},
		"quimica": {
			q(easy, 0, "What is the chemical symbol for sodium?", "Na", "So", "Sd", "S"),
			q(easy, 2, "What is the chemical formula of water?", "CO2", "O2", "H2O", "H2O2"),
			q(medium, 1, "What is the pH of a neutral solution at 25 °C?", "0", "7", "10", "14"),
			q(medium, 3, "Which particle has a negative charge?", "Proton", "Neutron", "Nucleus", "Electron"),
			q(hard, 0, "What is the molar mass of CO2, approximately?", "44 g/mol", "28 g/mol", "32 g/mol", "12 g/mol"),
			q(hard, 2, "Which type of bond shares electron pairs between atoms?", "Ionic", "Metallic", "Covalent", "Hydrogen"),
		},
		"fisica": {
			q(easy, 3, "What is the SI unit of force?", "Joule", "Watt", "Pascal", "Newton"),
			q(easy, 1, "What is the approximate speed of light in vacuum?", "300 km/s", "300,000 km/s", "30,000 km/s", "3,000 km/s"),
			q(medium, 0, "A car travels 120 km in 2 hours. What is its average speed?", "60 km/h", "120 km/h", "240 km/h", "30 km/h"),
			q(medium, 2, "Which law states that every action has an equal and opposite reaction?", "Newton's first law", "Newton's second law", "Newton's third law", "Ohm's law"),
			q(hard, 1, "What is the kinetic energy of a 2 kg mass moving at 3 m/s?", "6 J", "9 J", "18 J", "3 J"),
			q(hard, 3, "Using Ohm's law, what current flows through 10 Ω at 5 V?", "2 A", "50 A", "5 A", "0.5 A"),
		},
		"ingles": {
			q(easy, 0, "What is the past tense of \"go\"?", "went", "goed", "gone", "going"),
			q(easy, 2, "Choose the correct article: \"___ apple a day\".", "A", "The", "An", "No article"),
			q(medium, 1, "Which sentence is in the present perfect?", "She worked yesterday.", "She has worked here for years.", "She is working now.", "She will work tomorrow."),
			q(medium, 3, "What does \"nevertheless\" mean?", "Therefore", "Because", "Moreover", "However"),
			q(hard, 0, "Choose the correct form: \"If I ___ you, I would study more.\"", "were", "am", "be", "was being"),
			q(hard, 2, "Which word is a synonym of \"meticulous\"?", "Careless", "Quick", "Thorough", "Generous"),
		},
	}
}
