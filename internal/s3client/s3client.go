// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package s3client uploads database backups to the object store described
// by the S3 credentials relation.
package s3client

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/canonical/beszel-k8s-operator/core/relation"
)

var logger = loggo.GetLogger("beszel.s3client")

// uploadTimeout bounds one backup upload. There is no cancellation signal in
// the surrounding event dispatch, so the timeout is the only way out.
const uploadTimeout = 2 * time.Minute

// Uploader stores backups in an S3-compatible object store. It satisfies
// the charm package's BackupUploader interface.
type Uploader struct{}

// NewUploader returns an Uploader.
func NewUploader() *Uploader {
	return &Uploader{}
}

// Upload stores data under key in the bucket described by conn and returns
// the object location.
func (u *Uploader) Upload(conn *relation.S3ConnectionInfo, key string, data []byte) (string, error) {
	if conn.Bucket == "" {
		return "", errors.NotValidf("empty bucket")
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conn.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conn.AccessKey, conn.SecretKey, ""),
		),
	)
	if err != nil {
		return "", errors.Annotate(err, "loading S3 client configuration")
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conn.Endpoint != "" {
			o.BaseEndpoint = aws.String(conn.Endpoint)
		}
		// MinIO and friends do not support virtual-hosted-style requests.
		o.UsePathStyle = true
	})

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(conn.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", errors.Annotatef(err, "uploading %q to bucket %q", key, conn.Bucket)
	}

	location := fmt.Sprintf("s3://%s/%s", conn.Bucket, key)
	logger.Infof("uploaded backup to %s", location)
	return location, nil
}
