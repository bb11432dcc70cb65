package schema

import "github.com/viant/capbridge/codec"

var configureKeys = map[string]bool{
	"api_endpoint": true, "locale": true, "environment": true, "log_level": true,
	"console_logging": true, "file_logging": true, "debug": true, "wrapper_version": true,
}

// ConfigureOptions are session options passed to the provider on configure.
// Keys the bridge does not model are kept in Extra and passed through.
type ConfigureOptions struct {
	APIEndpoint    string
	Locale         string
	Environment    string
	LogLevel       string
	ConsoleLogging bool
	FileLogging    bool
	Debug          bool
	WrapperVersion string
	Extra          map[string]string
}

func (o *ConfigureOptions) EncodePayload() codec.Payload {
	p := codec.New()
	for k, v := range o.Extra {
		p.Set(k, v)
	}
	p.SetOptional("api_endpoint", o.APIEndpoint).
		SetOptional("locale", o.Locale).
		SetOptional("environment", o.Environment).
		SetOptional("log_level", o.LogLevel).
		SetBool("console_logging", o.ConsoleLogging).
		SetBool("file_logging", o.FileLogging).
		SetBool("debug", o.Debug).
		SetOptional("wrapper_version", o.WrapperVersion)
	return p
}

func (o *ConfigureOptions) DecodePayload(p codec.Payload) {
	o.APIEndpoint = p.Get("api_endpoint")
	o.Locale = p.Get("locale")
	o.Environment = p.Get("environment")
	o.LogLevel = p.Get("log_level")
	o.ConsoleLogging = p.Bool("console_logging")
	o.FileLogging = p.Bool("file_logging")
	o.Debug = p.Bool("debug")
	o.WrapperVersion = p.Get("wrapper_version")
	o.Extra = nil
	for k, v := range p {
		if configureKeys[k] {
			continue
		}
		if o.Extra == nil {
			o.Extra = map[string]string{}
		}
		o.Extra[k] = v
	}
}

// TriggerOptions carries the event and user properties attached to a trigger.
type TriggerOptions struct {
	Properties            map[string]string
	UserProperties        map[string]string
	UserPropertiesSetOnce map[string]string
}

func (o *TriggerOptions) EncodePayload() codec.Payload {
	p := codec.New()
	if len(o.Properties) > 0 {
		p.SetMap("properties", o.Properties)
	}
	if len(o.UserProperties) > 0 {
		p.SetMap("user_properties", o.UserProperties)
	}
	if len(o.UserPropertiesSetOnce) > 0 {
		p.SetMap("user_properties_set_once", o.UserPropertiesSetOnce)
	}
	return p
}

func (o *TriggerOptions) DecodePayload(p codec.Payload) {
	o.Properties = nestedMap(p, "properties")
	o.UserProperties = nestedMap(p, "user_properties")
	o.UserPropertiesSetOnce = nestedMap(p, "user_properties_set_once")
}

func nestedMap(p codec.Payload, key string) map[string]string {
	if !p.Has(key) {
		return nil
	}
	return p.Nested(key).Map()
}

// Properties decodes a flat property payload; an empty payload yields nil.
func Properties(payload string) map[string]string {
	p := codec.Decode(payload)
	if len(p) == 0 {
		return nil
	}
	return p.Map()
}
