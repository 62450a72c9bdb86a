package catalog

import (
	"fmt"

	"vocabquiz/internal/models"
)

// QuestionsPerTopic is the conventional size of a topic
const QuestionsPerTopic = 20

// generatedTopics is the number of placeholder advanced-vocabulary topics
const generatedTopics = 48

type word struct {
	prompt string
	answer string
}

type rawTopic struct {
	id    string
	title string
	image string
	words []word
}

var handwrittenTopics = []rawTopic{
	{
		id:    "t1",
		title: "Topic 7: Family – Part 1",
		image: "https://images.unsplash.com/photo-1511895426328-dc8714191300?w=600&q=80",
		words: []word{
			{"Anh em họ", "cousin"}, {"Cháu trai", "nephew"}, {"Cháu gái", "niece"},
			{"Mẹ kế", "stepmother"}, {"Bố dượng", "stepfather"}, {"Vợ", "wife"},
			{"Chồng", "husband"}, {"Anh em ruột", "sibling"}, {"Tổ tiên", "ancestor"},
			{"Hậu duệ", "descendant"}, {"Ông bà", "grandparents"}, {"Cha mẹ", "parents"},
			{"Con một", "only child"}, {"Nuôi dưỡng", "nurture"}, {"Gia đình hạt nhân", "nuclear family"},
			{"Gia đình mở rộng", "extended family"}, {"Gắn kết", "bonding"}, {"Người giám hộ", "guardian"},
			{"Thế hệ", "generation"}, {"Di truyền", "hereditary"},
		},
	},
	{
		id:    "t2",
		title: "Topic 8: Tourism – Part 3",
		image: "https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=600&q=80",
		words: []word{
			{"Hộ chiếu", "passport"}, {"Thị thực", "visa"}, {"Hành lý", "luggage"},
			{"Chuyến bay", "flight"}, {"Khách sạn", "hotel"}, {"Tham quan", "sightseeing"},
			{"Đặc sản", "specialty"}, {"Bản đồ", "map"}, {"Hướng dẫn viên", "guide"},
			{"Kỳ nghỉ", "vacation"}, {"Bãi biển", "beach"}, {"Núi", "mountain"},
			{"Bảo tàng", "museum"}, {"Quà lưu niệm", "souvenir"}, {"Đặt phòng", "reservation"},
			{"Khám phá", "explore"}, {"Văn hóa", "culture"}, {"Địa phương", "local"},
			{"Lịch trình", "itinerary"}, {"Phiêu lưu", "adventure"},
		},
	},
}

// Builtin returns the content shipped with the application: the hand-written
// topics followed by the generated advanced-vocabulary placeholders.
func Builtin() []models.Topic {
	raw := make([]rawTopic, 0, len(handwrittenTopics)+generatedTopics)
	raw = append(raw, handwrittenTopics...)

	for i := range generatedTopics {
		topicNumber := i + 9
		words := make([]word, QuestionsPerTopic)
		for j := range words {
			words[j] = word{
				prompt: fmt.Sprintf("Word %d for Topic %d", j+1, topicNumber),
				answer: fmt.Sprintf("answer%d", j+1),
			}
		}
		raw = append(raw, rawTopic{
			id:    fmt.Sprintf("auto-%d", i),
			title: fmt.Sprintf("Topic %d: Advanced Vocabulary - Part %d", topicNumber, i+1),
			image: fmt.Sprintf("https://images.unsplash.com/photo-%d?w=600&q=80", 1500000000000+i*1000),
			words: words,
		})
	}

	topics := make([]models.Topic, len(raw))
	for i, r := range raw {
		topics[i] = r.toTopic()
	}
	return topics
}

// BuiltinProvider serves the built-in content
func BuiltinProvider() Provider {
	return Static(Builtin())
}

func (r rawTopic) toTopic() models.Topic {
	questions := make([]models.Question, len(r.words))
	for idx, w := range r.words {
		questions[idx] = models.Question{
			ID:     fmt.Sprintf("%s-q%d", r.id, idx),
			Prompt: w.prompt,
			Answer: w.answer,
		}
	}
	return models.Topic{
		ID:        r.id,
		Title:     r.title,
		ImageURL:  r.image,
		Questions: questions,
	}
}
