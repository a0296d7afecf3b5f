package progress

import "fmt"

type ResourceKind string

const (
	ResourceAudio ResourceKind = "audio"
	ResourcePDF   ResourceKind = "pdf"
)

// Resource is one piece of content attached to a module.
type Resource struct {
	ID          string       `json:"id"`
	Kind        ResourceKind `json:"type"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description,omitempty"`
}

type Module struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Resources []Resource `json:"resources"`
}

// Audio returns the module's first audio resource.
func (m Module) Audio() (Resource, bool) {
	for _, r := range m.Resources {
		if r.Kind == ResourceAudio {
			return r, true
		}
	}
	return Resource{}, false
}

// Catalog is the fixed list of modules, ids 1..Len() in order.
type Catalog struct {
	modules []Module
}

var defaultModules = []Module{
	{ID: 1, Title: "A True Disciple", Resources: []Resource{
		{ID: "audio-1-1", Kind: ResourceAudio, Title: "A Clear Conscious", URL: "/assets/a-clear-conscious.mp3",
			Description: "Meditation on spiritual awareness and clarity for true discipleship"},
		{ID: "pdf-1-1", Kind: ResourcePDF, Title: "A True Disciple - Lyrics & Study Guide", URL: "/pdfs/true-disciple-lyrics.pdf",
			Description: "Complete lyrics with study notes and reflection questions"},
	}},
	{ID: 2, Title: "Knowledge Of The Word Of God", Resources: []Resource{
		{ID: "audio-2-1", Kind: ResourceAudio, Title: "Health By Design", URL: "/assets/health-by-design.mp3",
			Description: "Teaching on divine health and wellness through God's Word"},
		{ID: "pdf-2-1", Kind: ResourcePDF, Title: "Scripture Study Guide - Knowledge Of The Word", URL: "/pdfs/knowledge-of-the-word.pdf",
			Description: "Comprehensive study guide with key scriptures"},
	}},
	{ID: 3, Title: "Cultivating A Teachable Spirit", Resources: []Resource{
		{ID: "audio-3-1", Kind: ResourceAudio, Title: "Hope For Restoration", URL: "/assets/hope-for-restoration.mp3",
			Description: "Message of hope and restoration for cultivating a teachable spirit"},
		{ID: "pdf-3-1", Kind: ResourcePDF, Title: "Teachable Spirit - Study Materials", URL: "/pdfs/teachable-spirit.pdf",
			Description: "Study materials on cultivating a teachable spirit"},
	}},
	{ID: 4, Title: "Identity In Christ", Resources: []Resource{
		{ID: "audio-4-1", Kind: ResourceAudio, Title: "Praying For Your Man Of God", URL: "/assets/praying-for-your-man-of-god.mp3",
			Description: "Prayer guide for understanding identity in Christ"},
		{ID: "pdf-4-1", Kind: ResourcePDF, Title: "Identity In Christ - Study Notes", URL: "/pdfs/identity-in-christ.pdf",
			Description: "Biblical foundation for identity in Christ"},
	}},
	{ID: 5, Title: "A Strong Spirit", Resources: []Resource{
		{ID: "audio-5-1", Kind: ResourceAudio, Title: "Priesthood By The Spirit", URL: "/assets/priesthood-by-the-spirit.mp3",
			Description: "Teaching on spiritual priesthood and building a strong spirit"},
		{ID: "pdf-5-1", Kind: ResourcePDF, Title: "Strong Spirit - Spiritual Warfare Guide", URL: "/pdfs/strong-spirit.pdf",
			Description: "Guide to building spiritual strength"},
	}},
}

// DefaultModuleCount is the size of the built-in catalog.
const DefaultModuleCount = 5

func DefaultCatalog() Catalog {
	return NewCatalog(DefaultModuleCount)
}

// NewCatalog returns a catalog of n modules. The built-in modules come
// first; any beyond them get placeholder titles and no resources. n below
// 1 yields the default catalog.
func NewCatalog(n int) Catalog {
	if n < 1 {
		n = DefaultModuleCount
	}
	modules := make([]Module, 0, n)
	for id := 1; id <= n; id++ {
		if id <= len(defaultModules) {
			modules = append(modules, defaultModules[id-1])
			continue
		}
		modules = append(modules, Module{ID: id, Title: fmt.Sprintf("Module %d", id)})
	}
	return Catalog{modules: modules}
}

func (c Catalog) Len() int { return len(c.modules) }

func (c Catalog) Contains(id int) bool {
	return id >= 1 && id <= len(c.modules)
}

func (c Catalog) Lookup(id int) (Module, bool) {
	if !c.Contains(id) {
		return Module{}, false
	}
	return c.modules[id-1], true
}

// Modules returns a copy of the catalog in id order.
func (c Catalog) Modules() []Module {
	return append([]Module(nil), c.modules...)
}
