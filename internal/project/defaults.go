package project

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// https://developer.mozilla.org/en-US/docs/Web/HTML/Element
const htmlTags = "html,body,base,head,link,meta,style,title,address,article,aside,footer," +
	"header,hgroup,h1,h2,h3,h4,h5,h6,nav,section,div,dd,dl,dt,figcaption," +
	"figure,picture,hr,img,li,main,ol,p,pre,ul,a,b,abbr,bdi,bdo,br,cite,code," +
	"data,dfn,em,i,kbd,mark,q,rp,rt,ruby,s,samp,small,span,strong,sub,sup," +
	"time,u,var,wbr,area,audio,map,track,video,embed,object,param,source," +
	"canvas,script,noscript,del,ins,caption,col,colgroup,table,thead,tbody,td," +
	"th,tr,button,datalist,fieldset,form,input,label,legend,meter,optgroup," +
	"option,output,progress,select,textarea,details,dialog,menu," +
	"summary,template,blockquote,iframe,tfoot"

// https://developer.mozilla.org/en-US/docs/Web/SVG/Element
const svgTags = "svg,animate,animateMotion,animateTransform,circle,clipPath,color-profile," +
	"defs,desc,discard,ellipse,feBlend,feColorMatrix,feComponentTransfer," +
	"feComposite,feConvolveMatrix,feDiffuseLighting,feDisplacementMap," +
	"feDistanceLight,feDropShadow,feFlood,feFuncA,feFuncB,feFuncG,feFuncR," +
	"feGaussianBlur,feImage,feMerge,feMergeNode,feMorphology,feOffset," +
	"fePointLight,feSpecularLighting,feSpotLight,feTile,feTurbulence,filter," +
	"foreignObject,g,hatch,hatchpath,image,line,linearGradient,marker,mask," +
	"mesh,meshgradient,meshpatch,meshrow,metadata,mpath,path,pattern," +
	"polygon,polyline,radialGradient,rect,set,solidcolor,stop,switch,symbol," +
	"text,textPath,title,tspan,unknown,use,view"

// CompilerOptions is the fully defaulted component compiler configuration.
type CompilerOptions struct {
	Target                                 float64                   `mapstructure:"target" json:"target" yaml:"target"`
	Extensions                             []string                  `mapstructure:"extensions" json:"extensions" yaml:"extensions"`
	JSXTemplates                           bool                      `mapstructure:"jsxTemplates" json:"jsxTemplates" yaml:"jsxTemplates"`
	StrictTemplates                        bool                      `mapstructure:"strictTemplates" json:"strictTemplates" yaml:"strictTemplates"`
	SkipTemplateCodegen                    bool                      `mapstructure:"skipTemplateCodegen" json:"skipTemplateCodegen" yaml:"skipTemplateCodegen"`
	NativeTags                             []string                  `mapstructure:"nativeTags" json:"nativeTags" yaml:"nativeTags"`
	DataAttributes                         []string                  `mapstructure:"dataAttributes" json:"dataAttributes" yaml:"dataAttributes"`
	HTMLAttributes                         []string                  `mapstructure:"htmlAttributes" json:"htmlAttributes" yaml:"htmlAttributes"`
	OptionsWrapper                         []string                  `mapstructure:"optionsWrapper" json:"optionsWrapper" yaml:"optionsWrapper"`
	Macros                                 map[string][]string       `mapstructure:"macros" json:"macros" yaml:"macros"`
	NarrowingTypesInInlineHandlers         bool                      `mapstructure:"narrowingTypesInInlineHandlers" json:"narrowingTypesInInlineHandlers" yaml:"narrowingTypesInInlineHandlers"`
	Plugins                                []LanguagePlugin          `mapstructure:"-" json:"-" yaml:"-"`
	Hooks                                  []string                  `mapstructure:"hooks" json:"hooks" yaml:"hooks"`
	ExperimentalAdditionalLanguageModules  []string                  `mapstructure:"experimentalAdditionalLanguageModules" json:"experimentalAdditionalLanguageModules" yaml:"experimentalAdditionalLanguageModules"`
	ExperimentalResolveStyleCSSClasses     string                    `mapstructure:"experimentalResolveStyleCssClasses" json:"experimentalResolveStyleCssClasses" yaml:"experimentalResolveStyleCssClasses"`
	ExperimentalRfc436                     bool                      `mapstructure:"experimentalRfc436" json:"experimentalRfc436" yaml:"experimentalRfc436"`
	ExperimentalModelPropName              map[string]map[string]any `mapstructure:"experimentalModelPropName" json:"experimentalModelPropName" yaml:"experimentalModelPropName"`
	ExperimentalUseElementAccessInTemplate bool                      `mapstructure:"experimentalUseElementAccessInTemplate" json:"experimentalUseElementAccessInTemplate" yaml:"experimentalUseElementAccessInTemplate"`

	// Extra keeps the options this version does not know about.
	Extra map[string]any `mapstructure:",remain" json:"extra,omitempty" yaml:"extra,omitempty"`
}

// PluginNames returns the names of the loaded plugins in order.
func (o *CompilerOptions) PluginNames() []string {
	names := make([]string, 0, len(o.Plugins))
	for _, p := range o.Plugins {
		names = append(names, p.Name())
	}
	return names
}

// Defaultize fills every unset option. It performs no I/O and returns
// freshly allocated maps and slices on every call, so identical input
// yields deep-equal output. Keys set to null count as unset.
func Defaultize(partial RawOptions) CompilerOptions {
	raw := make(map[string]any, len(partial))
	for k, v := range partial {
		if v != nil && k != "plugins" {
			raw[k] = deepCopy(v)
		}
	}
	has := func(key string) bool {
		_, ok := raw[key]
		return ok
	}

	var opts CompilerOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err == nil {
		// Values of the wrong shape are left at their defaults below.
		if decodeErr := decoder.Decode(raw); decodeErr != nil {
			opts = decodeLenient(raw)
		}
	}

	if !has("target") {
		opts.Target = 3
	}
	if !has("extensions") {
		opts.Extensions = []string{".vue"}
	}
	if !has("nativeTags") {
		opts.NativeTags = defaultNativeTags()
	}
	if !has("dataAttributes") {
		opts.DataAttributes = []string{}
	}
	if !has("htmlAttributes") {
		opts.HTMLAttributes = []string{"aria-*"}
	}
	if !has("optionsWrapper") {
		if opts.Target >= 2.7 {
			opts.OptionsWrapper = []string{"(await import('vue')).defineComponent(", ")"}
		} else {
			opts.OptionsWrapper = []string{"(await import('vue')).default.extend(", ")"}
		}
	}
	if !has("macros") {
		opts.Macros = map[string][]string{
			"defineProps":  {"defineProps"},
			"defineEmits":  {"defineEmits"},
			"defineExpose": {"defineExpose"},
			"withDefaults": {"withDefaults"},
		}
	}
	if !has("hooks") {
		opts.Hooks = []string{}
	}
	if !has("experimentalAdditionalLanguageModules") {
		opts.ExperimentalAdditionalLanguageModules = []string{}
	}
	if !has("experimentalResolveStyleCssClasses") {
		opts.ExperimentalResolveStyleCSSClasses = "scoped"
	}
	if !has("experimentalModelPropName") {
		opts.ExperimentalModelPropName = map[string]map[string]any{
			"": {
				"input": true,
			},
			"value": {
				"input":    map[string]any{"type": "text"},
				"textarea": true,
				"select":   true,
			},
		}
	}

	opts.Plugins = []LanguagePlugin{}
	if plugins, ok := partial["plugins"].([]LanguagePlugin); ok {
		opts.Plugins = append(opts.Plugins, plugins...)
	}
	if opts.Extra == nil {
		opts.Extra = map[string]any{}
	}

	return opts
}

// decodeLenient decodes key by key so that one malformed option does not
// discard the others.
func decodeLenient(raw map[string]any) CompilerOptions {
	var opts CompilerOptions
	for k, v := range raw {
		var probe CompilerOptions
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &probe,
		})
		if err != nil {
			continue
		}
		if decoder.Decode(map[string]any{k: v}) != nil {
			delete(raw, k)
			continue
		}
		mergeDecoded(&opts, &probe, k)
	}
	return opts
}

// mergeDecoded copies the field decoded for key from src into dst.
func mergeDecoded(dst, src *CompilerOptions, key string) {
	switch key {
	case "target":
		dst.Target = src.Target
	case "extensions":
		dst.Extensions = src.Extensions
	case "jsxTemplates":
		dst.JSXTemplates = src.JSXTemplates
	case "strictTemplates":
		dst.StrictTemplates = src.StrictTemplates
	case "skipTemplateCodegen":
		dst.SkipTemplateCodegen = src.SkipTemplateCodegen
	case "nativeTags":
		dst.NativeTags = src.NativeTags
	case "dataAttributes":
		dst.DataAttributes = src.DataAttributes
	case "htmlAttributes":
		dst.HTMLAttributes = src.HTMLAttributes
	case "optionsWrapper":
		dst.OptionsWrapper = src.OptionsWrapper
	case "macros":
		dst.Macros = src.Macros
	case "narrowingTypesInInlineHandlers":
		dst.NarrowingTypesInInlineHandlers = src.NarrowingTypesInInlineHandlers
	case "hooks":
		dst.Hooks = src.Hooks
	case "experimentalAdditionalLanguageModules":
		dst.ExperimentalAdditionalLanguageModules = src.ExperimentalAdditionalLanguageModules
	case "experimentalResolveStyleCssClasses":
		dst.ExperimentalResolveStyleCSSClasses = src.ExperimentalResolveStyleCSSClasses
	case "experimentalRfc436":
		dst.ExperimentalRfc436 = src.ExperimentalRfc436
	case "experimentalModelPropName":
		dst.ExperimentalModelPropName = src.ExperimentalModelPropName
	case "experimentalUseElementAccessInTemplate":
		dst.ExperimentalUseElementAccessInTemplate = src.ExperimentalUseElementAccessInTemplate
	default:
		if dst.Extra == nil {
			dst.Extra = map[string]any{}
		}
		for k, v := range src.Extra {
			dst.Extra[k] = v
		}
	}
}

// defaultNativeTags returns the ordered, de-duplicated union of the HTML
// and SVG element names and the framework's reserved tags.
func defaultNativeTags() []string {
	var tags []string
	seen := make(map[string]bool)
	for _, group := range []string{htmlTags, svgTags, "hgroup,slot,component"} {
		for _, tag := range strings.Split(group, ",") {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(t))
		for k, e := range t {
			c[k] = deepCopy(e)
		}
		return c
	case RawOptions:
		c := make(map[string]any, len(t))
		for k, e := range t {
			c[k] = deepCopy(e)
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = deepCopy(e)
		}
		return c
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
