// Package prompts builds the instruction text and output schema for every
// kind of generation request.
package prompts

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"fakepost/internal/gateway"
)

// Kind names a generation request.
type Kind string

const (
	KindPostText       Kind = "post_text"
	KindProfilePicture Kind = "profile_picture"
	KindPostImage      Kind = "post_image"
	KindPostVideo      Kind = "post_video"
	KindPostAudio      Kind = "post_audio"
	KindComments       Kind = "comments"
	KindRandomPost     Kind = "random_post"
)

const (
	DefaultVoice       = "Algenib"
	VideoAspectRatio   = "9:16"
	VideoDurationSecs  = 5
	profilePictureSize = "400x400"
	postImageSize      = "600x400"
)

// Template is an immutable, fully built generation request.
type Template struct {
	Kind   Kind
	Prompt string
	// Schema is set for text kinds only.
	Schema *gateway.Schema
	// Modality is set for image and audio kinds.
	Modality gateway.Modality
	Voice    string
	// AspectRatio and DurationSeconds are set for video.
	AspectRatio     string
	DurationSeconds int
	// Topic is the randomly drawn subject of a random post.
	Topic string
}

// LanguageName returns the English display name used to steer the model's
// output language.
func LanguageName(tag language.Tag) string {
	if tag == language.Und {
		tag = language.English
	}
	if name := display.Languages(language.English).Name(tag); name != "" {
		return name
	}
	return "English"
}

// ParseLocale parses a BCP 47 locale, falling back to English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil || tag == language.Und {
		return language.English
	}
	base, _ := tag.Base()
	return language.Make(base.String())
}

// PostText asks for a short marketing post about topic.
func PostText(topic string, lang language.Tag) Template {
	var b strings.Builder
	b.WriteString("You are a social media marketing expert.\n\n")
	b.WriteString("Write a short, engaging social media post about the following topic. ")
	fmt.Fprintf(&b, "The post must be written in %s and suit platforms such as Instagram, Facebook or Twitter. ", LanguageName(lang))
	b.WriteString("Include relevant hashtags.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(topic))
	return Template{
		Kind:   KindPostText,
		Prompt: b.String(),
		Schema: gateway.Object(gateway.Field{
			Name:   "postContent",
			Schema: gateway.String("The generated social media post content, including relevant hashtags."),
		}),
	}
}

// ProfilePicture asks for a square portrait matching hint.
func ProfilePicture(hint string) Template {
	return Template{
		Kind:     KindProfilePicture,
		Prompt:   fmt.Sprintf("photorealistic profile picture of a %s, %s", strings.TrimSpace(hint), profilePictureSize),
		Modality: gateway.ModalityImage,
	}
}

// PostImage asks for a landscape post illustration.
func PostImage(prompt string) Template {
	return Template{
		Kind:     KindPostImage,
		Prompt:   fmt.Sprintf("A high-quality, realistic image for a social media post about: %s, %s", strings.TrimSpace(prompt), postImageSize),
		Modality: gateway.ModalityImage,
	}
}

// PostVideo asks for a short vertical clip.
func PostVideo(prompt string) Template {
	return Template{
		Kind:            KindPostVideo,
		Prompt:          fmt.Sprintf("A dynamic, engaging, vertical video for a social media post about: %s", strings.TrimSpace(prompt)),
		AspectRatio:     VideoAspectRatio,
		DurationSeconds: VideoDurationSecs,
	}
}

// PostAudio narrates text verbatim.
func PostAudio(text string) Template {
	return Template{
		Kind:     KindPostAudio,
		Prompt:   text,
		Modality: gateway.ModalityAudio,
		Voice:    DefaultVoice,
	}
}

// DefaultPersonas guides comment variety when the caller gives none.
func DefaultPersonas() []string {
	return []string{
		"a supportive friend",
		"a curious stranger",
		"someone who relates to the post",
		"a funny person trying to make a joke",
		"a subject-matter expert",
	}
}

// Comments asks for exactly count comments on postBody. A nil personas slice
// selects DefaultPersonas.
func Comments(postBody string, count int, personas []string, lang language.Tag) Template {
	if personas == nil {
		personas = DefaultPersonas()
	}
	langName := LanguageName(lang)

	var b strings.Builder
	b.WriteString("You are an expert at simulating social media engagement.\n\n")
	b.WriteString("Generate realistic, varied comments for the following social media post. ")
	b.WriteString("For each comment also generate a commenter name and a 1-2 word hint for a profile picture (e.g. 'smiling man', 'woman with glasses'). ")
	fmt.Fprintf(&b, "Comments and names must be in %s.\n", langName)
	b.WriteString("Make 1 or 2 of the comments carry 1 or 2 short replies written by other personas, each with its own name and profile picture hint.\n\n")
	fmt.Fprintf(&b, "Post content: %s\n\n", strings.TrimSpace(postBody))
	fmt.Fprintf(&b, "Number of comments to generate: %d\n", count)
	if len(personas) > 0 {
		b.WriteString("\nConsider these commenter profiles when writing the comments:\n")
		for _, p := range personas {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}

	return Template{
		Kind:   KindComments,
		Prompt: b.String(),
		Schema: commentsSchema(count),
	}
}

func commentsSchema(count int) *gateway.Schema {
	reply := gateway.Object(
		gateway.Field{Name: "name", Schema: gateway.String("The full name of the person replying.")},
		gateway.Field{Name: "comment", Schema: gateway.String("The reply text.")},
		gateway.Field{Name: "profilePicHint", Schema: gateway.String("A 1-2 word hint for the replier's profile picture.")},
	)
	comment := gateway.Object(
		gateway.Field{Name: "name", Schema: gateway.String("The full name of the commenter.")},
		gateway.Field{Name: "comment", Schema: gateway.String("The generated comment text.")},
		gateway.Field{Name: "profilePicHint", Schema: gateway.String("A 1-2 word hint for the commenter's profile picture.")},
		gateway.Field{
			Name:     "replies",
			Schema:   gateway.Array(reply, "Optional short replies to this comment.").WithItemCount(1, 2),
			Optional: true,
		},
	)
	return gateway.Object(gateway.Field{
		Name:   "comments",
		Schema: gateway.Array(comment, "The generated comments.").WithItemCount(count, count),
	})
}

// RandomPost draws one topic from Topics with rng and asks for a complete
// fictional post about it.
func RandomPost(rng *rand.Rand, lang language.Tag) Template {
	topics := Topics()
	topic := topics[rng.Intn(len(topics))]
	langName := LanguageName(lang)

	var b strings.Builder
	b.WriteString("You are a social media marketing and persona creation expert.\n\n")
	b.WriteString("Your task is to generate the text details for a brand new, random social media post based on a drawn topic.\n\n")
	fmt.Fprintf(&b, "Today's topic is: %q\n\n", topic)
	fmt.Fprintf(&b, "Please generate the following, in %s:\n", langName)
	b.WriteString("1. A realistic full name for a fictional user.\n")
	b.WriteString("2. A username for that user, starting with @.\n")
	b.WriteString("3. A 1-2 word hint for the profile picture (e.g. 'smiling man', 'woman with glasses').\n")
	b.WriteString("4. Short, engaging post content about the topic, including relevant hashtags.\n")
	b.WriteString("5. A visually appealing prompt for an AI image/video generator that fits the post content.\n")

	return Template{
		Kind:   KindRandomPost,
		Prompt: b.String(),
		Topic:  topic,
		Schema: gateway.Object(
			gateway.Field{Name: "profileName", Schema: gateway.String("The full name for a fictional social media user.")},
			gateway.Field{Name: "username", Schema: gateway.String("The username (starting with @) for the fictional user.")},
			gateway.Field{Name: "profilePicPrompt", Schema: gateway.String("A 1-2 word hint for generating a profile picture.")},
			gateway.Field{Name: "postContent", Schema: gateway.String("The post content based on the topic, including relevant hashtags.")},
			gateway.Field{Name: "postMediaPrompt", Schema: gateway.String("A prompt for an AI image/video generator relevant to the post content.")},
		),
	}
}

// Topics lists the subjects random posts are drawn from.
func Topics() []string {
	return []string{
		"a new chocolate cake recipe",
		"tips for a trip to Italy",
		"the launch of a new smartphone",
		"a productive day working from home",
		"a science fiction book I just finished",
		"the importance of taking care of your mental health",
		"a do-it-yourself weekend project",
		"my opinion on the latest superhero movie",
		"a quick workout to do at home",
		"the beauty of a sunset at the beach",
	}
}
