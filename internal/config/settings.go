package config

import (
	"fmt"

	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"

	"greynoise-ingest/internal/retry"
)

type Config struct {
	Client    Client
	GreyNoise GreyNoise
	Mongo     Mongo
	Inputs    Inputs
	Retry     retry.Settings
	Logger    Logger
	Shoutrrr  Shoutrrr
}

func (c *Config) SetDefaults() {
	c.Client.setDefaults()
	c.GreyNoise.setDefaults()
	c.Mongo.setDefaults()
	c.Inputs.setDefaults()
	c.Retry.SetDefaults()
	c.Logger.setDefaults()
	c.Shoutrrr.setDefaults()
}

func (c Config) Validate() (err error) {
	type validator interface {
		Validate() (err error)
	}
	toValidate := map[string]validator{
		"client":    &c.Client,
		"greynoise": &c.GreyNoise,
		"mongo":     &c.Mongo,
		"inputs":    &c.Inputs,
		"retry":     &c.Retry,
		"logger":    &c.Logger,
		"shoutrrr":  &c.Shoutrrr,
	}

	for name, v := range toValidate {
		err = v.Validate()
		if err != nil {
			return fmt.Errorf("%s settings: %w", name, err)
		}
	}

	return nil
}

func (c Config) String() string {
	return c.toLinesNode().String()
}

func (c Config) toLinesNode() *gotree.Node {
	node := gotree.New("Settings summary:")
	node.AppendNode(c.Client.toLinesNode())
	node.AppendNode(c.GreyNoise.toLinesNode())
	node.AppendNode(c.Mongo.toLinesNode())
	node.AppendNode(c.Inputs.toLinesNode())
	node.AppendNode(c.Retry.ToLinesNode())
	node.AppendNode(c.Logger.toLinesNode())
	shoutrrrNode := c.Shoutrrr.toLinesNode()
	if shoutrrrNode != nil {
		node.AppendNode(shoutrrrNode)
	}
	return node
}

func (c *Config) Read(reader *reader.Reader, warner Warner) (err error) {
	err = c.Client.read(reader)
	if err != nil {
		return fmt.Errorf("reading client settings: %w", err)
	}

	c.GreyNoise.read(reader)
	c.Mongo.read(reader)
	c.Inputs.read(reader)

	err = readRetry(&c.Retry, reader, warner)
	if err != nil {
		return fmt.Errorf("reading retry settings: %w", err)
	}

	err = c.Logger.read(reader)
	if err != nil {
		return fmt.Errorf("reading logger settings: %w", err)
	}

	c.Shoutrrr.read(reader)

	return nil
}
