package entity

type SubjectKind string

const (
	KindPost    SubjectKind = "post"
	KindComment SubjectKind = "comment"
)

type LikeState struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}
