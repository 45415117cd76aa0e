package posts

func Encode(p *Post) WirePost {
	return WirePost{
		ID:    p.ID,
		Title: p.Title,
		Body:  p.Body,
	}
}

// EncodeAll never returns nil so an empty result marshals as [].
func EncodeAll(list []*Post) []WirePost {
	out := make([]WirePost, 0, len(list))
	for _, p := range list {
		out = append(out, Encode(p))
	}
	return out
}
