package catalog

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// Widget types known at compile time.
const (
	TypeHero          = "hero"
	TypeText          = "text"
	TypeHeading       = "heading"
	TypeImage         = "image"
	TypeButton        = "button"
	TypeFeatures      = "features"
	TypeGallery       = "gallery"
	TypeAnnouncements = "announcements"
	TypeEvents        = "events"
	TypeStaff         = "staff"
	TypeContact       = "contact"
	TypeFooter        = "footer"
	TypeSpacer        = "spacer"
)

// Props is the loosely-typed property bag stored on every placed component.
type Props map[string]interface{}

// Clone returns a deep copy of p: nested maps and slices are never shared with the original.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	cp := make(Props, len(p))
	for k, v := range p {
		cp[k] = cloneValue(v)
	}
	return cp
}

// Merge returns a deep copy of p with the keys of `over` written on top of it.
func (p Props) Merge(over Props) Props {
	merged := p.Clone()
	if merged == nil {
		merged = make(Props, len(over))
	}
	for k, v := range over {
		merged[k] = cloneValue(v)
	}
	return merged
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case Props:
		return val.Clone()
	case map[string]interface{}:
		return map[string]interface{}(Props(val).Clone())
	case map[string]string:
		cp := make(map[string]string, len(val))
		for k, s := range val {
			cp[k] = s
		}
		return cp
	case []interface{}:
		cp := make([]interface{}, len(val))
		for i, item := range val {
			cp[i] = cloneValue(item)
		}
		return cp
	case []map[string]interface{}:
		cp := make([]map[string]interface{}, len(val))
		for i, item := range val {
			cp[i] = Props(item).Clone()
		}
		return cp
	case []Props:
		cp := make([]Props, len(val))
		for i, item := range val {
			cp[i] = item.Clone()
		}
		return cp
	case []string:
		return append([]string(nil), val...)
	default:
		return cloneReflect(reflect.ValueOf(v)).Interface()
	}
}

// cloneReflect deep-copies slices, arrays and maps of any element type. Other kinds are returned as is.
func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cp.Index(i).Set(cloneElem(rv.Index(i)))
		}
		return cp
	case reflect.Array:
		cp := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			cp.Index(i).Set(cloneElem(rv.Index(i)))
		}
		return cp
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return cp
	default:
		return rv
	}
}

func cloneElem(ev reflect.Value) reflect.Value {
	if ev.Kind() == reflect.Interface {
		if ev.IsNil() {
			return ev
		}
		return reflect.ValueOf(cloneValue(ev.Elem().Interface()))
	}
	return cloneReflect(ev)
}

// WidgetProps is the typed payload of a widget, one variant per widget type.
type WidgetProps interface {
	WidgetType() string
}

type (
	HeroProps struct {
		Title           string `mapstructure:"title"`
		Subtitle        string `mapstructure:"subtitle"`
		BackgroundImage string `mapstructure:"backgroundImage"`
		ButtonText      string `mapstructure:"buttonText"`
		ButtonLink      string `mapstructure:"buttonLink"`
	}

	TextProps struct {
		Content  string `mapstructure:"content"`
		Align    string `mapstructure:"align"`
		FontSize string `mapstructure:"fontSize"`
	}

	HeadingProps struct {
		Content string `mapstructure:"content"`
		Level   string `mapstructure:"level"`
		Align   string `mapstructure:"align"`
	}

	ImageProps struct {
		Src   string `mapstructure:"src"`
		Alt   string `mapstructure:"alt"`
		Width string `mapstructure:"width"`
	}

	ButtonProps struct {
		Text    string `mapstructure:"text"`
		Link    string `mapstructure:"link"`
		Variant string `mapstructure:"variant"`
	}

	Feature struct {
		Icon        string `mapstructure:"icon"`
		Title       string `mapstructure:"title"`
		Description string `mapstructure:"description"`
	}

	FeaturesProps struct {
		Title    string    `mapstructure:"title"`
		Features []Feature `mapstructure:"features"`
	}

	GalleryProps struct {
		Title  string   `mapstructure:"title"`
		Images []string `mapstructure:"images"`
	}

	Announcement struct {
		Title   string `mapstructure:"title"`
		Date    string `mapstructure:"date"`
		Excerpt string `mapstructure:"excerpt"`
	}

	AnnouncementsProps struct {
		Title string         `mapstructure:"title"`
		Items []Announcement `mapstructure:"items"`
	}

	Event struct {
		Title string `mapstructure:"title"`
		Date  string `mapstructure:"date"`
		Time  string `mapstructure:"time"`
	}

	EventsProps struct {
		Title  string  `mapstructure:"title"`
		Events []Event `mapstructure:"events"`
	}

	StaffMember struct {
		Name  string `mapstructure:"name"`
		Role  string `mapstructure:"role"`
		Image string `mapstructure:"image"`
	}

	StaffProps struct {
		Title string        `mapstructure:"title"`
		Staff []StaffMember `mapstructure:"staff"`
	}

	ContactProps struct {
		Title   string `mapstructure:"title"`
		Address string `mapstructure:"address"`
		Phone   string `mapstructure:"phone"`
		Email   string `mapstructure:"email"`
		ShowMap bool   `mapstructure:"showMap"`
	}

	FooterProps struct {
		SchoolName  string            `mapstructure:"schoolName"`
		Address     string            `mapstructure:"address"`
		Phone       string            `mapstructure:"phone"`
		Email       string            `mapstructure:"email"`
		SocialLinks map[string]string `mapstructure:"socialLinks"`
	}

	SpacerProps struct {
		Height string `mapstructure:"height"`
	}

	// GenericProps carries the props of a widget type unknown at compile time.
	GenericProps struct {
		Type   string
		Values Props
	}
)

func (HeroProps) WidgetType() string          { return TypeHero }
func (TextProps) WidgetType() string          { return TypeText }
func (HeadingProps) WidgetType() string       { return TypeHeading }
func (ImageProps) WidgetType() string         { return TypeImage }
func (ButtonProps) WidgetType() string        { return TypeButton }
func (FeaturesProps) WidgetType() string      { return TypeFeatures }
func (GalleryProps) WidgetType() string       { return TypeGallery }
func (AnnouncementsProps) WidgetType() string { return TypeAnnouncements }
func (EventsProps) WidgetType() string        { return TypeEvents }
func (StaffProps) WidgetType() string         { return TypeStaff }
func (ContactProps) WidgetType() string       { return TypeContact }
func (FooterProps) WidgetType() string        { return TypeFooter }
func (SpacerProps) WidgetType() string        { return TypeSpacer }
func (g GenericProps) WidgetType() string     { return g.Type }

var variants = map[string]func() WidgetProps{
	TypeHero:          func() WidgetProps { return &HeroProps{} },
	TypeText:          func() WidgetProps { return &TextProps{} },
	TypeHeading:       func() WidgetProps { return &HeadingProps{} },
	TypeImage:         func() WidgetProps { return &ImageProps{} },
	TypeButton:        func() WidgetProps { return &ButtonProps{} },
	TypeFeatures:      func() WidgetProps { return &FeaturesProps{} },
	TypeGallery:       func() WidgetProps { return &GalleryProps{} },
	TypeAnnouncements: func() WidgetProps { return &AnnouncementsProps{} },
	TypeEvents:        func() WidgetProps { return &EventsProps{} },
	TypeStaff:         func() WidgetProps { return &StaffProps{} },
	TypeContact:       func() WidgetProps { return &ContactProps{} },
	TypeFooter:        func() WidgetProps { return &FooterProps{} },
	TypeSpacer:        func() WidgetProps { return &SpacerProps{} },
}

// IsKnownType reports whether typ has a typed props variant.
func IsKnownType(typ string) bool {
	_, ok := variants[typ]
	return ok
}

// decodeProps decodes the bag into the typed variant of typ (a pointer), or a GenericProps.
// Scalars are weakly typed so that `height: 60` and `height: "60"` decode alike.
func decodeProps(typ string, props Props) (WidgetProps, error) {
	newVariant, ok := variants[typ]
	if !ok {
		return GenericProps{Type: typ, Values: props.Clone()}, nil
	}
	out := newVariant()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating props decoder")
	}
	if err = decoder.Decode(map[string]interface{}(props)); err != nil {
		return nil, errors.Wrapf(err, "decoding %s props", typ)
	}
	return out, nil
}
