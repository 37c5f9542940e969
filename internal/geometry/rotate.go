/*
 * Copyright (c) 2026 PosterForge contributors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"math"

	"posterforge/internal/domain"
)

// RotatedBounds returns the axis-aligned bounding box of a width×height
// rectangle rotated by angle degrees. Angle 0 is the identity; otherwise
// both extents are ceiling-rounded to whole pixels.
func RotatedBounds(width, height, angleDegrees float64) domain.Size {
	if angleDegrees == 0 {
		return domain.Size{Width: width, Height: height}
	}
	rad := angleDegrees * math.Pi / 180
	sin := math.Abs(math.Sin(rad))
	cos := math.Abs(math.Cos(rad))
	return domain.Size{
		Width:  math.Ceil(width*cos + height*sin),
		Height: math.Ceil(width*sin + height*cos),
	}
}
