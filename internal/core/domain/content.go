package domain

// TweetContent is a single tweet in a generated thread.
type TweetContent struct {
	Text     string `json:"text" bson:"text"`
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// EmailContent is a generated marketing email.
type EmailContent struct {
	Subject string `json:"subject" bson:"subject"`
	Body    string `json:"body" bson:"body"`
}

// BlogContent is a generated article.
type BlogContent struct {
	Title   string `json:"title" bson:"title"`
	Content string `json:"content" bson:"content"`
}

// InstagramContent is a generated Instagram post.
type InstagramContent struct {
	Caption  string `json:"caption" bson:"caption"`
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// GeneratedContent holds the per-platform payloads produced by one job.
// Each platform has its own strict shape; ImageURL is the reserved
// top-level hero image shared across visual platforms. Field names keep
// the wire contract the frontend expects (imageUrl, image_url).
type GeneratedContent struct {
	Twitter   []TweetContent    `json:"twitter,omitempty" bson:"twitter,omitempty"`
	LinkedIn  string            `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram *InstagramContent `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Facebook  string            `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Email     *EmailContent     `json:"email,omitempty" bson:"email,omitempty"`
	Blog      *BlogContent      `json:"blog,omitempty" bson:"blog,omitempty"`
	ImageURL  string            `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
}

// ForPlatform returns the payload generated for p, or ok=false when the
// job produced nothing for that channel.
func (g *GeneratedContent) ForPlatform(p Platform) (any, bool) {
	if g == nil {
		return nil, false
	}
	switch p {
	case PlatformTwitter:
		if len(g.Twitter) == 0 {
			return nil, false
		}
		return g.Twitter, true
	case PlatformLinkedIn:
		if g.LinkedIn == "" {
			return nil, false
		}
		return g.LinkedIn, true
	case PlatformInstagram:
		if g.Instagram == nil {
			return nil, false
		}
		return g.Instagram, true
	case PlatformFacebook:
		if g.Facebook == "" {
			return nil, false
		}
		return g.Facebook, true
	case PlatformEmail:
		if g.Email == nil {
			return nil, false
		}
		return g.Email, true
	case PlatformBlog:
		if g.Blog == nil {
			return nil, false
		}
		return g.Blog, true
	}
	return nil, false
}

// AttachImage records the hero image and mirrors it into the payloads
// that carry inline images (first tweet, instagram post).
func (g *GeneratedContent) AttachImage(url string) {
	if g == nil || url == "" {
		return
	}
	g.ImageURL = url
	if len(g.Twitter) > 0 {
		g.Twitter[0].ImageURL = url
	}
	if g.Instagram != nil {
		g.Instagram.ImageURL = url
	}
}
